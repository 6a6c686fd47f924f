package handlers

import (
	"context"
	"net/http"
	"strconv"

	"rentalhub/internal/models"
	"rentalhub/internal/service"
	"rentalhub/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	svc service.ReservationService
	log *zap.Logger
}

func NewReservationHandler(svc service.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{svc: svc, log: log}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "start_date must be YYYY-MM-DD"))
		return
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "end_date must be YYYY-MM-DD"))
		return
	}

	in := service.CreateReservationInput{
		Kind:      models.RequestKind(req.Kind),
		StartDate: start,
		EndDate:   end,
		Note:      req.Note,
	}
	for _, line := range req.Items {
		in.Lines = append(in.Lines, service.ReservationLine{
			InstrumentID: line.InstrumentID,
			Quantity:     line.Quantity,
			LocationID:   line.LocationID,
		})
	}

	created, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requests": dto.FromReservations(created)})
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	req, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReservation(*req))
}

func (h *ReservationHandler) List(c *gin.Context) {
	f := service.ReservationListFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("status"); v != "" {
		status := models.RequestStatus(v)
		f.Status = &status
	}
	if v := c.Query("kind"); v != "" {
		kind := models.RequestKind(v)
		f.Kind = &kind
	}
	if v := c.Query("instrument_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid instrument_id"))
			return
		}
		f.InstrumentID = &id
	}

	list, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"requests": dto.FromReservations(list),
		"meta":     dto.ListMeta{Total: total, Limit: f.Limit, Offset: f.Offset},
	})
}

func (h *ReservationHandler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

func (h *ReservationHandler) Reject(c *gin.Context) {
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
	res, err := h.svc.Reject(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReservation(*res))
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.decide(c, h.svc.Cancel)
}

func (h *ReservationHandler) Return(c *gin.Context) {
	h.decide(c, h.svc.Return)
}

func (h *ReservationHandler) decide(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	res, err := op(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReservation(*res))
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
