package repository

import (
	"context"
	"errors"
	"time"

	"rentalhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingListFilter struct {
	UserID     *uuid.UUID
	LocationID *uuid.UUID
	Date       *time.Time
	Status     *models.BookingStatus
	Limit      int
	Offset     int
}

type BookingRepo interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, f BookingListFilter) ([]models.Booking, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error

	// FindConflicts returns approved and pending bookings whose time range
	// overlaps [start, end) on the same date and location, excluding the
	// booking under evaluation. Pending bookings count as conflicts so that
	// approving one of two mutually overlapping pending bookings blocks the
	// other.
	FindConflicts(ctx context.Context, date time.Time, locationID uuid.UUID, start, end string, excludeID uuid.UUID) ([]models.Booking, error)
}

type bookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) BookingRepo { return &bookingRepo{db: db} }

func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

func (r *bookingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

func (r *bookingRepo) List(ctx context.Context, f BookingListFilter) ([]models.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if f.Date != nil {
		q = q.Where("date = ?", f.Date.Format("2006-01-02"))
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

	var list []models.Booking
	if err := q.Order("date DESC, start_time ASC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *bookingRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(fields).Error
}

func (r *bookingRepo) FindConflicts(ctx context.Context, date time.Time, locationID uuid.UUID, start, end string, excludeID uuid.UUID) ([]models.Booking, error) {
	var list []models.Booking
	// Half-open interval overlap: A.start < B.end AND A.end > B.start also
	// covers full containment either way.
	err := r.db.WithContext(ctx).
		Where("date = ? AND location_id = ?", date.Format("2006-01-02"), locationID).
		Where("status IN ?", []models.BookingStatus{models.BookingApproved, models.BookingPending}).
		Where("start_time < ? AND end_time > ?", end, start).
		Where("id <> ?", excludeID).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}
