package repository

import (
	"context"
	"errors"

	"rentalhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestListFilter struct {
	UserID       *uuid.UUID
	InstrumentID *uuid.UUID
	Kind         *models.RequestKind
	Status       *models.RequestStatus
	Limit        int
	Offset       int
}

type RequestRepo interface {
	Create(ctx context.Context, req *models.ReservationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error)
	// GetByIDForUpdate row-locks the request; every status transition
	// reads the current state under this lock.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error)
	List(ctx context.Context, f RequestListFilter) ([]models.ReservationRequest, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type requestRepo struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) RequestRepo { return &requestRepo{db: db} }

func (r *requestRepo) Create(ctx context.Context, req *models.ReservationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error) {
	var req models.ReservationRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &req, err
}

func (r *requestRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error) {
	var req models.ReservationRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &req, err
}

func (r *requestRepo) List(ctx context.Context, f RequestListFilter) ([]models.ReservationRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ReservationRequest{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.InstrumentID != nil {
		q = q.Where("instrument_id = ?", *f.InstrumentID)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.ReservationRequest
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *requestRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.ReservationRequest{}).Where("id = ?", id).Updates(fields).Error
}
