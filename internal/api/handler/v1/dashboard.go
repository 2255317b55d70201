package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assohub/assohub-api/internal/api/handler/v1/response"
	"github.com/assohub/assohub-api/internal/domain"
)

type DashboardService interface {
	Summary(ctx context.Context) (domain.DashboardSummary, error)
}

type DashboardHandler struct {
	svc     DashboardService
	authSvc AccountService
}

func NewDashboardHandler(svc DashboardService, authSvc AccountService) *DashboardHandler {
	return &DashboardHandler{
		svc:     svc,
		authSvc: authSvc,
	}
}

// HandleDashboard godoc
// @Summary      Dashboard summary
// @Description  Aggregates the roster, events, fees and ledger in one view. Administrators only.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} domain.DashboardSummary
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /dashboard [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleDashboard(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	summary, err := h.svc.Summary(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Summary -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, summary)
}
