package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assohub/assohub-api/internal/api/handler/v1/request"
	"github.com/assohub/assohub-api/internal/api/handler/v1/response"
	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/service"
)

type FeeService interface {
	ListFees(ctx context.Context, account domain.Account) ([]domain.MembershipFee, error)
	CreateFee(ctx context.Context, fee domain.MembershipFee) (domain.MembershipFee, error)
	FeesForMember(ctx context.Context, memberID uint, account domain.Account) ([]domain.MembershipFee, error)
}

type FeeHandler struct {
	svc     FeeService
	authSvc AccountService
}

func NewFeeHandler(svc FeeService, authSvc AccountService) *FeeHandler {
	return &FeeHandler{
		svc:     svc,
		authSvc: authSvc,
	}
}

// HandleListFees godoc
// @Summary      List membership fees
// @Description  Administrators see every fee, associates only their own.
// @Tags         fees
// @Produce      json
// @Success      200 {array}  domain.MembershipFee
// @Failure      401 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /fees [get]
// @Security BearerAuth
func (h *FeeHandler) HandleListFees(ctx *gin.Context) {
	account, respErr := getAccountFromContext(ctx, h.authSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	fees, err := h.svc.ListFees(ctx.Request.Context(), account)
	if err != nil {
		err = fmt.Errorf("v1.HandleListFees -> h.svc.ListFees -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, fees)
}

// HandleCreateFee godoc
// @Summary      Record a membership fee
// @Description  One fee per member and year. Administrators only.
// @Tags         fees
// @Produce      json
// @Param        request body request.CreateFeeRequest true "request body"
// @Success      201 {object} domain.MembershipFee
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /fees [post]
// @Security BearerAuth
func (h *FeeHandler) HandleCreateFee(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateFee(ctx.Request.Context(), domain.MembershipFee{
		MemberID:    req.MemberID,
		Year:        req.Year,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, service.ErrFeeYearExists) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("member", "ID", req.MemberID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateFee -> h.svc.CreateFee -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleMemberFees godoc
// @Summary      List one member's fees
// @Description  Newest year first. Associates may only ask for their own member.
// @Tags         fees
// @Produce      json
// @Param        memberID path int true "member ID"
// @Success      200 {array}  domain.MembershipFee
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /members/{memberID}/fees [get]
// @Security BearerAuth
func (h *FeeHandler) HandleMemberFees(ctx *gin.Context) {
	account, respErr := getAccountFromContext(ctx, h.authSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	memberID, err := parseIDParam(ctx, "memberID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fees, err := h.svc.FeesForMember(ctx.Request.Context(), memberID, account)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("member", "ID", memberID))
			return
		}

		err = fmt.Errorf("v1.HandleMemberFees -> h.svc.FeesForMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, fees)
}
