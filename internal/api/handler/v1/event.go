package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/assohub/assohub-api/internal/api/handler/v1/request"
	"github.com/assohub/assohub-api/internal/api/handler/v1/response"
	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/service"
)

type EventService interface {
	ListEvents(ctx context.Context, now time.Time, account *domain.Account) (domain.EventListing, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	RegisterParticipation(ctx context.Context, account domain.Account, eventID uint) (domain.Participation, bool, error)
	UpdateParticipation(ctx context.Context, id uint, presence bool) (domain.Participation, error)
}

type EventHandler struct {
	svc     EventService
	authSvc AccountService
}

func NewEventHandler(svc EventService, authSvc AccountService) *EventHandler {
	return &EventHandler{
		svc:     svc,
		authSvc: authSvc,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Public listing: upcoming events ascending, recent past events descending. A signed-in caller with a linked member also gets the IDs of events they registered for.
// @Tags         events
// @Produce      json
// @Success      200 {object} domain.EventListing
// @Failure      500 {object} response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	account := getOptionalAccountFromContext(ctx, h.authSvc)

	listing, err := h.svc.ListEvents(ctx.Request.Context(), time.Now(), account)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, listing)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID path int true "event ID"
// @Success      200 {object} domain.Event
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Administrators only.
// @Tags         events
// @Produce      json
// @Param        request body request.CreateEventRequest true "request body"
// @Success      201 {object} domain.Event
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Administrators only.
// @Tags         events
// @Produce      json
// @Param        eventID path int true "event ID"
// @Param        request body request.UpdateEventRequest true "request body"
// @Success      200 {object} domain.Event
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), domain.Event{
		ID:          eventID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Removes the event and its participations; ledger entries keep their row with the event reference cleared. Administrators only.
// @Tags         events
// @Produce      json
// @Param        eventID path int true "event ID"
// @Success      204
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleRegisterParticipation godoc
// @Summary      Register for an event
// @Description  Signs the caller's member up. Registering twice is a no-op that returns the original registration.
// @Tags         events
// @Produce      json
// @Param        eventID path int true "event ID"
// @Success      200 {object} response.RegisterParticipationResponse
// @Success      201 {object} response.RegisterParticipationResponse
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/participations [post]
// @Security BearerAuth
func (h *EventHandler) HandleRegisterParticipation(ctx *gin.Context) {
	account, respErr := getAccountFromContext(ctx, h.authSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, created, err := h.svc.RegisterParticipation(ctx.Request.Context(), account, eventID)
	if err != nil {
		if errors.Is(err, service.ErrNoLinkedMember) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleRegisterParticipation -> h.svc.RegisterParticipation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, response.RegisterParticipationResponse{
		Participation: participation,
		Created:       created,
	})
}

// HandleUpdateParticipation godoc
// @Summary      Update attendance
// @Description  Marks a registration present or absent. Administrators only.
// @Tags         events
// @Produce      json
// @Param        participationID path int true "participation ID"
// @Param        request body request.UpdateParticipationRequest true "request body"
// @Success      200 {object} domain.Participation
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /participations/{participationID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateParticipation(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participationID, err := parseIDParam(ctx, "participationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateParticipation(ctx.Request.Context(), participationID, *req.Presence)
	if err != nil {
		if errors.Is(err, service.ErrParticipationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participation", "ID", participationID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateParticipation -> h.svc.UpdateParticipation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
