package repository

import (
	"context"
	"errors"

	"rentalhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventServiceRepo interface {
	Create(ctx context.Context, s *models.EventService) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EventService, error)
	List(ctx context.Context, onlyActive bool) ([]models.EventService, error)
}

type eventServiceRepo struct {
	db *gorm.DB
}

func NewEventServiceRepo(db *gorm.DB) EventServiceRepo { return &eventServiceRepo{db: db} }

func (r *eventServiceRepo) Create(ctx context.Context, s *models.EventService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *eventServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EventService, error) {
	var s models.EventService
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *eventServiceRepo) List(ctx context.Context, onlyActive bool) ([]models.EventService, error) {
	q := r.db.WithContext(ctx).Model(&models.EventService{})
	if onlyActive {
		q = q.Where("is_active = TRUE")
	}
	var list []models.EventService
	err := q.Order("name ASC").Find(&list).Error
	return list, err
}
