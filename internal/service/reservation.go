package service

import (
	"context"
	"time"

	"rentalhub/internal/models"

	"github.com/google/uuid"
)

type ReservationLine struct {
	InstrumentID uuid.UUID
	Quantity     int32
	LocationID   *uuid.UUID
}

type CreateReservationInput struct {
	Kind      models.RequestKind
	StartDate time.Time
	EndDate   time.Time
	Note      string
	Lines     []ReservationLine
}

type ReservationListFilter struct {
	UserID       *uuid.UUID
	InstrumentID *uuid.UUID
	Kind         *models.RequestKind
	Status       *models.RequestStatus
	Limit        int
	Offset       int
}

// ReservationService runs the borrow/rent request lifecycle:
// pending -> approved/rejected/cancelled, approved -> returned.
// Inventory is held eagerly: Create subtracts the requested quantity from
// the ledger in the same transaction that inserts the request row.
type ReservationService interface {
	// Create validates and reserves every line under instrument row locks
	// before decrementing any of them, so a mid-batch failure leaves no
	// partial holds.
	Create(ctx context.Context, in CreateReservationInput) ([]models.ReservationRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error)
	List(ctx context.Context, f ReservationListFilter) ([]models.ReservationRequest, int64, error)

	Approve(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error)
	Reject(ctx context.Context, id uuid.UUID, note string) (*models.ReservationRequest, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error)
	Return(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error)
}
