package handlers

import (
	"context"
	"net/http"

	"rentalhub/internal/models"
	"rentalhub/internal/service"
	"rentalhub/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	svc service.BookingService
	log *zap.Logger
}

func NewBookingHandler(svc service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "date must be YYYY-MM-DD"))
		return
	}

	result, err := h.svc.Create(c.Request.Context(), service.CreateBookingInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ServiceID:     req.ServiceID,
		Date:          date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		LocationID:    req.LocationID,
		Note:          req.Note,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateBookingResponse{
		Booking:   dto.FromBooking(result.Booking),
		Conflicts: dto.FromBookings(result.Conflicts),
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBooking(*b))
}

func (h *BookingHandler) List(c *gin.Context) {
	f := service.BookingListFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("status"); v != "" {
		status := models.BookingStatus(v)
		f.Status = &status
	}
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid location_id"))
			return
		}
		f.LocationID = &id
	}
	if v := c.Query("date"); v != "" {
		date, err := dto.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "date must be YYYY-MM-DD"))
			return
		}
		f.Date = &date
	}

	list, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings": dto.FromBookings(list),
		"meta":     dto.ListMeta{Total: total, Limit: f.Limit, Offset: f.Offset},
	})
}

func (h *BookingHandler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	var req dto.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, h.log, err)
			return
		}
	}
	b, err := h.svc.Reject(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBooking(*b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.decide(c, h.svc.Cancel)
}

func (h *BookingHandler) decide(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*models.Booking, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	b, err := op(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBooking(*b))
}
