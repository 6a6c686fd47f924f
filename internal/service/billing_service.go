package service

import (
	"context"
	"time"

	"rentalhub/internal/models"
	"rentalhub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillingService issues invoices and serves the customer's invoice
// history. It satisfies InvoiceGenerator for the approval paths.
type BillingService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewBillingService(repo *repository.Repository, log *zap.Logger) *BillingService {
	return &BillingService{repo: repo, log: log, now: time.Now}
}

func (s *BillingService) GenerateInvoice(ctx context.Context, userID uuid.UUID, amountCents int64, description string) (uuid.UUID, error) {
	inv := models.Invoice{
		UserID:      userID,
		AmountCents: amountCents,
		Description: description,
		Status:      models.InvoiceIssued,
		IssuedAt:    s.now(),
	}
	if err := s.repo.Invoices.Create(ctx, &inv); err != nil {
		return uuid.Nil, err
	}
	s.log.Info("invoice issued",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("amount_cents", amountCents))
	return inv.ID, nil
}

func (s *BillingService) ListMyInvoices(ctx context.Context) ([]models.Invoice, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Invoices.ListByUser(ctx, userID)
}
