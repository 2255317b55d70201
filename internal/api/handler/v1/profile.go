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

type ProfileService interface {
	GetAccount(ctx context.Context, id uint) (domain.Account, error)
	UpdateProfile(ctx context.Context, accountID uint, update service.ProfileUpdate) (domain.Account, error)
	ChangePassword(ctx context.Context, accountID uint, oldPassword, newPassword string) error
}

type ProfileHandler struct {
	svc ProfileService
}

func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{
		svc: svc,
	}
}

// HandleGetProfile godoc
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} domain.Account
// @Failure      401 {object} response.Err
// @Router       /profile [get]
// @Security BearerAuth
func (h *ProfileHandler) HandleGetProfile(ctx *gin.Context) {
	account, respErr := getAccountFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, account)
}

// HandleUpdateProfile godoc
// @Summary      Update own profile
// @Description  Edits the account's identity fields; name, email and phone are mirrored onto the linked member.
// @Tags         profile
// @Produce      json
// @Param        request body request.UpdateProfileRequest true "request body"
// @Success      200 {object} domain.Account
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /profile [put]
// @Security BearerAuth
func (h *ProfileHandler) HandleUpdateProfile(ctx *gin.Context) {
	account, respErr := getAccountFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateProfile(ctx.Request.Context(), account.ID, service.ProfileUpdate{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) || errors.Is(err, service.ErrMemberEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateProfile -> h.svc.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleChangePassword godoc
// @Summary      Change own password
// @Tags         profile
// @Produce      json
// @Param        request body request.ChangePasswordRequest true "request body"
// @Success      204
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /profile/password [put]
// @Security BearerAuth
func (h *ProfileHandler) HandleChangePassword(ctx *gin.Context) {
	account, respErr := getAccountFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.ChangePassword(ctx.Request.Context(), account.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleChangePassword -> h.svc.ChangePassword -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
