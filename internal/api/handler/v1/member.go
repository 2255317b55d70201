package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/assohub/assohub-api/internal/api/handler/v1/request"
	"github.com/assohub/assohub-api/internal/api/handler/v1/response"
	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/service"
)

type MemberService interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, id uint) (domain.Member, error)
	CreateMember(ctx context.Context, member domain.Member) (domain.Member, error)
	CreateMemberWithAccount(ctx context.Context, member domain.Member, username, password string) (domain.Member, domain.Account, error)
	UpdateMember(ctx context.Context, member domain.Member) (domain.Member, error)
	DeleteMember(ctx context.Context, id uint) error
}

type MemberHandler struct {
	svc     MemberService
	authSvc AccountService
}

func NewMemberHandler(svc MemberService, authSvc AccountService) *MemberHandler {
	return &MemberHandler{
		svc:     svc,
		authSvc: authSvc,
	}
}

// HandleListMembers godoc
// @Summary      List members
// @Description  The full roster ordered by surname. Administrators only.
// @Tags         members
// @Produce      json
// @Success      200 {array}  domain.Member
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /members [get]
// @Security BearerAuth
func (h *MemberHandler) HandleListMembers(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	members, err := h.svc.ListMembers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListMembers -> h.svc.ListMembers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, members)
}

// HandleCreateMember godoc
// @Summary      Create a member
// @Description  Creates a roster entry, optionally together with a login account. Administrators only.
// @Tags         members
// @Produce      json
// @Param        request body request.CreateMemberRequest true "request body"
// @Success      201 {object} response.CreateMemberResponse
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /members [post]
// @Security BearerAuth
func (h *MemberHandler) HandleCreateMember(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	member := domain.Member{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Active:    true,
	}
	if req.Active != nil {
		member.Active = *req.Active
	}

	var resp response.CreateMemberResponse
	var err error

	if req.WithAccount() {
		var account domain.Account
		resp.Member, account, err = h.svc.CreateMemberWithAccount(ctx.Request.Context(), member, req.Username, req.Password)
		resp.Account = &account
	} else {
		resp.Member, err = h.svc.CreateMember(ctx.Request.Context(), member)
	}

	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) || errors.Is(err, service.ErrMemberEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateMember -> h.svc.CreateMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// HandleUpdateMember godoc
// @Summary      Update a member
// @Description  Saves the member; a role change is mirrored onto any linked account. Administrators only.
// @Tags         members
// @Produce      json
// @Param        memberID path int true "member ID"
// @Param        request  body request.UpdateMemberRequest true "request body"
// @Success      200 {object} domain.Member
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /members/{memberID} [put]
// @Security BearerAuth
func (h *MemberHandler) HandleUpdateMember(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	memberID, err := parseIDParam(ctx, "memberID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateMember(ctx.Request.Context(), domain.Member{
		ID:        memberID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Active:    *req.Active,
	})
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("member", "ID", memberID))
			return
		}
		if errors.Is(err, service.ErrMemberEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateMember -> h.svc.UpdateMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteMember godoc
// @Summary      Delete a member
// @Description  Removes the member with its fees, participations and login account. Administrators only.
// @Tags         members
// @Produce      json
// @Param        memberID path int true "member ID"
// @Success      204
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /members/{memberID} [delete]
// @Security BearerAuth
func (h *MemberHandler) HandleDeleteMember(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	memberID, err := parseIDParam(ctx, "memberID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteMember(ctx.Request.Context(), memberID); err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("member", "ID", memberID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteMember -> h.svc.DeleteMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %v (%v)", name, raw)
	}

	return uint(id), nil
}
