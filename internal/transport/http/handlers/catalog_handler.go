package handlers

import (
	"net/http"

	"rentalhub/internal/models"
	"rentalhub/internal/service"
	"rentalhub/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	svc service.CatalogService
	log *zap.Logger
}

func NewCatalogHandler(svc service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: log}
}

func (h *CatalogHandler) CreateInstrument(c *gin.Context) {
	var req dto.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	inst, err := h.svc.CreateInstrument(c.Request.Context(), service.CreateInstrumentInput{
		Name:              req.Name,
		Category:          req.Category,
		DailyPriceCents:   req.DailyPriceCents,
		PrimaryLocationID: req.PrimaryLocationID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromInstrument(*inst))
}

func (h *CatalogHandler) GetInstrument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	detail, err := h.svc.GetInstrument(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.InstrumentDetailResponse{
		InstrumentResponse: dto.FromInstrument(detail.Instrument),
		Available:          detail.Available,
	})
}

func (h *CatalogHandler) ListInstruments(c *gin.Context) {
	f := service.InstrumentListFilter{
		Category:        c.Query("category"),
		IncludeArchived: c.Query("include_archived") == "true",
		Limit:           queryInt(c, "limit", 20),
		Offset:          queryInt(c, "offset", 0),
	}
	list, total, err := h.svc.ListInstruments(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"instruments": dto.FromInstruments(list),
		"meta":        dto.ListMeta{Total: total, Limit: f.Limit, Offset: f.Offset},
	})
}

func (h *CatalogHandler) UpdateInstrument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	var req dto.UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	in := service.UpdateInstrumentInput{
		Name:              req.Name,
		Category:          req.Category,
		DailyPriceCents:   req.DailyPriceCents,
		PrimaryLocationID: req.PrimaryLocationID,
	}
	if req.Status != nil {
		status := models.AvailabilityStatus(*req.Status)
		in.Status = &status
	}
	inst, err := h.svc.UpdateInstrument(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromInstrument(*inst))
}

func (h *CatalogHandler) ArchiveInstrument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	if err := h.svc.ArchiveInstrument(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) SetInventory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	var req dto.SetInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	if err := h.svc.SetStock(c.Request.Context(), id, req.LocationID, req.Quantity); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	qty, err := h.svc.Availability(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{InstrumentID: id, Available: qty})
}

func (h *CatalogHandler) AddItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	item, err := h.svc.AddItem(c.Request.Context(), service.CreateItemInput{
		InstrumentID: id,
		SerialNumber: req.SerialNumber,
		LocationID:   req.LocationID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromItem(*item))
}

func (h *CatalogHandler) ListItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	items, err := h.svc.ListItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": dto.FromItems(items)})
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	loc, err := h.svc.CreateLocation(c.Request.Context(), service.CreateLocationInput{
		Name: req.Name,
		Kind: models.LocationKind(req.Kind),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromLocation(*loc))
}

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	list, err := h.svc.ListLocations(c.Request.Context(), c.Query("only_active") == "true")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": dto.FromLocations(list)})
}

func (h *CatalogHandler) DeactivateLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	if err := h.svc.DeactivateLocation(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateEventService(c *gin.Context) {
	var req dto.CreateEventServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, err)
		return
	}
	svc, err := h.svc.CreateEventService(c.Request.Context(), service.CreateEventServiceInput{
		Name:       req.Name,
		PriceCents: req.PriceCents,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEventService(*svc))
}

func (h *CatalogHandler) ListEventServices(c *gin.Context) {
	list, err := h.svc.ListEventServices(c.Request.Context(), c.Query("only_active") == "true")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": dto.FromEventServices(list)})
}
