package repository

import (
	"context"

	"rentalhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepo interface {
	Create(ctx context.Context, inv *models.Invoice) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Invoice, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepo { return &invoiceRepo{db: db} }

func (r *invoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Invoice, error) {
	var list []models.Invoice
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&list).Error
	return list, err
}
