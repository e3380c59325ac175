package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/response"
	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/service"
)

// Reason codes carried by 409 responses.
const (
	CodeAlreadyRegistered   = "ALREADY_REGISTERED"
	CodeAlreadyCancelled    = "ALREADY_CANCELLED"
	CodeCapacityExceeded    = "CAPACITY_EXCEEDED"
	CodeAttendanceConfirmed = "ATTENDANCE_CONFIRMED"
)

type RegistrationService interface {
	Register(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	CancelRegistration(ctx context.Context, eventID, userID uint) error
	MarkAttendance(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	GetRegistration(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	IsRegistered(ctx context.Context, eventID, userID uint) (bool, error)
	ListRegistrationsByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
}

// EventOrganizerChecker is the part of the event service the registration routes need.
type EventOrganizerChecker interface {
	IsOrganizer(ctx context.Context, eventID, userID uint) (bool, error)
}

type RegistrationHandler struct {
	svc    RegistrationService
	events EventOrganizerChecker
}

func NewRegistrationHandler(svc RegistrationService, events EventOrganizerChecker) *RegistrationHandler {
	return &RegistrationHandler{
		svc:    svc,
		events: events,
	}
}

// registrationErr maps lifecycle failures to responses. Anything unknown is a 500.
func registrationErr(op string, err error, eventID, userID uint) *response.Err {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return response.ErrNotFound("event", "ID", eventID)
	case errors.Is(err, service.ErrAttendeeNotFound):
		return response.ErrNotFound("user", "ID", userID)
	case errors.Is(err, service.ErrRegistrationNotFound):
		return response.ErrNotFound("registration", "userID", userID)
	case errors.Is(err, service.ErrAlreadyRegistered):
		return response.ErrConflict(CodeAlreadyRegistered, service.ErrAlreadyRegistered)
	case errors.Is(err, service.ErrCapacityExceeded):
		return response.ErrConflict(CodeCapacityExceeded, service.ErrCapacityExceeded)
	case errors.Is(err, service.ErrAlreadyCancelled):
		return response.ErrConflict(CodeAlreadyCancelled, service.ErrAlreadyCancelled)
	case errors.Is(err, service.ErrAttendanceConfirmed):
		return response.ErrConflict(CodeAttendanceConfirmed, service.ErrAttendanceConfirmed)
	}

	return response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err))
}

// requireOrganizer renders the error itself and reports whether the caller may proceed.
func (h *RegistrationHandler) requireOrganizer(ctx *gin.Context, eventID, userID uint) bool {
	ok, err := h.events.IsOrganizer(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RenderErr(ctx, registrationErr("h.events.IsOrganizer", err, eventID, userID))
		return false
	}
	if !ok {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not organize event %v", userID, eventID)))
		return false
	}

	return true
}

// HandleRegister godoc
// @Summary      Register for an event
// @Description  Takes one seat and issues a ticket code. Fails with 409 when the event is full or the user already holds an active registration.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201      {object}  domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/register [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registration, err := h.svc.Register(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RenderErr(ctx, registrationErr("v1.HandleRegister -> h.svc.Register", err, eventID, userID))
		return
	}

	ctx.JSON(http.StatusCreated, registration)
}

// HandleCancelRegistration godoc
// @Summary      Cancel a registration
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/register [delete]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleCancelRegistration(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.CancelRegistration(ctx.Request.Context(), eventID, userID); err != nil {
		response.RenderErr(ctx, registrationErr("v1.HandleCancelRegistration -> h.svc.CancelRegistration", err, eventID, userID))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetRegistration godoc
// @Summary      Get the caller's registration for an event
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registration [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleGetRegistration(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registration, err := h.svc.GetRegistration(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RenderErr(ctx, registrationErr("v1.HandleGetRegistration -> h.svc.GetRegistration", err, eventID, userID))
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleIsRegistered godoc
// @Summary      Check whether the caller holds an active registration
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.RegisteredResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registered [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleIsRegistered(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registered, err := h.svc.IsRegistered(ctx.Request.Context(), eventID, userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleIsRegistered -> h.svc.IsRegistered -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RegisteredResponse{Registered: registered})
}

// HandleListEventRegistrations godoc
// @Summary      List an event's registrations
// @Description  Only the event's organizer can see who registered.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListEventRegistrations(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !h.requireOrganizer(ctx, eventID, userID) {
		return
	}

	registrations, err := h.svc.ListRegistrationsByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEventRegistrations -> h.svc.ListRegistrationsByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleMarkAttendance godoc
// @Summary      Confirm an attendee's presence
// @Description  Only the event's organizer can confirm attendance. Confirming twice returns the registration unchanged.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Param        userID   path      int  true  "Attendee user ID"
// @Success      200      {object}  domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations/{userID}/attendance [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleMarkAttendance(ctx *gin.Context) {
	organizerID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendeeID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !h.requireOrganizer(ctx, eventID, organizerID) {
		return
	}

	registration, err := h.svc.MarkAttendance(ctx.Request.Context(), eventID, attendeeID)
	if err != nil {
		response.RenderErr(ctx, registrationErr("v1.HandleMarkAttendance -> h.svc.MarkAttendance", err, eventID, attendeeID))
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleListMyRegistrations godoc
// @Summary      List the caller's registrations
// @Tags         registrations,users
// @Produce      json
// @Success      200      {array}   domain.Registration
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/me/registrations [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListMyRegistrations(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrations, err := h.svc.ListRegistrationsByUser(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyRegistrations -> h.svc.ListRegistrationsByUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}
