package handlers

import (
	"net/http"

	"rentalhub/internal/service"
	"rentalhub/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountHandler serves the caller's own notifications and invoices.
type AccountHandler struct {
	notifications *service.NotificationService
	billing       *service.BillingService
	log           *zap.Logger
}

func NewAccountHandler(notifications *service.NotificationService, billing *service.BillingService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{notifications: notifications, billing: billing, log: log}
}

func (h *AccountHandler) ListNotifications(c *gin.Context) {
	list, err := h.notifications.ListMine(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": dto.FromNotifications(list)})
}

func (h *AccountHandler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("bad_request", "invalid id"))
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) ListInvoices(c *gin.Context) {
	list, err := h.billing.ListMyInvoices(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": dto.FromInvoices(list)})
}
