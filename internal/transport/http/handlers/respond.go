package handlers

import (
	"errors"
	"net/http"

	"rentalhub/internal/service"
	"rentalhub/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the service error taxonomy onto HTTP statuses. The
// payload-carrying kinds keep their details in the envelope.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var insufficient *service.InsufficientInventoryError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, dto.NewErrorWithDetails("insufficient_inventory", err.Error(),
			dto.InsufficientInventoryDetails{
				InstrumentID: insufficient.InstrumentID,
				Requested:    insufficient.Requested,
				Available:    insufficient.Available,
			}))
		return
	}
	var conflict *service.ApprovalConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, dto.NewErrorWithDetails("booking_conflict", err.Error(),
			dto.ConflictDetails{Conflicts: dto.FromBookings(conflict.Conflicts)}))
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewError("unauthorized", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewError("forbidden", err.Error()))
	case errors.Is(err, service.ErrInstrumentNotFound),
		errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrLocationNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, dto.NewError("not_found", err.Error()))
	case errors.Is(err, service.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, dto.NewError("invalid_state", err.Error()))
	case errors.Is(err, service.ErrNoLocationConfigured):
		c.JSON(http.StatusUnprocessableEntity, dto.NewError("no_location", err.Error()))
	case errors.Is(err, service.ErrLockTimeout):
		c.JSON(http.StatusLocked, dto.NewError("lock_timeout", err.Error()))
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrEmptyItems):
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", err.Error()))
	default:
		log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError("internal", "internal server error"))
	}
}

func respondBadRequest(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid request body"))
}
