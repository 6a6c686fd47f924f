package service

import (
	"context"
	"time"

	"rentalhub/internal/models"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	CustomerName  string
	CustomerPhone string
	ServiceID     *uuid.UUID
	Date          time.Time
	StartTime     string // "HH:MM"
	EndTime       string // "HH:MM"
	LocationID    uuid.UUID
	Note          string
}

// CreateBookingResult surfaces the overlapping bookings found at creation
// time. A conflict does not block creation: the booking lands as pending
// and an admin adjudicates.
type CreateBookingResult struct {
	Booking   models.Booking
	Conflicts []models.Booking
}

type BookingListFilter struct {
	UserID     *uuid.UUID
	LocationID *uuid.UUID
	Date       *time.Time
	Status     *models.BookingStatus
	Limit      int
	Offset     int
}

// BookingService adjudicates time-boxed event bookings. Approval is the
// hard consistency point: it serializes per (date, location) behind an
// advisory lock so two admins cannot concurrently approve two mutually
// overlapping pending bookings.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, f BookingListFilter) ([]models.Booking, int64, error)

	Approve(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Reject(ctx context.Context, id uuid.UUID, note string) (*models.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}
