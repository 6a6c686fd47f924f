package repository

import (
	"context"
	"errors"

	"rentalhub/internal/models"
	"rentalhub/internal/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoActiveLocation means no active location exists to hold a
// reservation. Callers must abort their transaction instead of defaulting
// to an arbitrary value.
var ErrNoActiveLocation = errors.New("no active location configured")

type LocationRepo interface {
	Create(ctx context.Context, l *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	List(ctx context.Context, onlyActive bool) ([]models.Location, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error

	// Resolve picks the storage location for an inventory operation on the
	// given instrument: the explicit one when supplied, else the
	// instrument's configured primary location (read under row lock when
	// inside a transaction), else the lowest-id active location.
	Resolve(ctx context.Context, instrumentID uuid.UUID, explicit *uuid.UUID) (uuid.UUID, error)
}

type locationRepo struct {
	db   *gorm.DB
	caps *schema.Capabilities
}

func NewLocationRepo(db *gorm.DB, caps *schema.Capabilities) LocationRepo {
	return &locationRepo{db: db, caps: caps}
}

func (r *locationRepo) Create(ctx context.Context, l *models.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var l models.Location
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *locationRepo) List(ctx context.Context, onlyActive bool) ([]models.Location, error) {
	q := r.db.WithContext(ctx).Model(&models.Location{})
	if onlyActive {
		q = q.Where("is_active = TRUE")
	}
	var list []models.Location
	err := q.Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *locationRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).Updates(fields).Error
}

func (r *locationRepo) Resolve(ctx context.Context, instrumentID uuid.UUID, explicit *uuid.UUID) (uuid.UUID, error) {
	if explicit != nil {
		return *explicit, nil
	}

	if r.caps.HasPrimaryLocationColumn {
		var row struct {
			PrimaryLocationID *uuid.UUID
		}
		err := r.db.WithContext(ctx).Raw(`
SELECT primary_location_id FROM instruments WHERE id = @iid FOR UPDATE
`, map[string]any{"iid": instrumentID}).Scan(&row).Error
		if err != nil {
			return uuid.Nil, err
		}
		if row.PrimaryLocationID != nil {
			return *row.PrimaryLocationID, nil
		}
	}

	// Stable tie-break: the oldest active location wins.
	var fallback uuid.UUID
	tx := r.db.WithContext(ctx).Raw(`
SELECT id FROM locations WHERE is_active = TRUE ORDER BY created_at ASC, id ASC LIMIT 1
`).Scan(&fallback)
	if tx.Error != nil {
		return uuid.Nil, tx.Error
	}
	if tx.RowsAffected == 0 || fallback == uuid.Nil {
		return uuid.Nil, ErrNoActiveLocation
	}
	return fallback, nil
}
