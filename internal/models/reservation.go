package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestKind string

const (
	RequestBorrow RequestKind = "BORROW"
	RequestRent   RequestKind = "RENT"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
	RequestReturned  RequestStatus = "RETURNED"
)

// ReservationRequest holds N units of an instrument over a date range.
// Borrow and rent requests run the same state machine; rent requests
// additionally carry fee fields.
//
// The quantity is subtracted from the inventory ledger in the same
// transaction that inserts the row, so a pending request already reduces
// what the next caller sees as available.
type ReservationRequest struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Kind         RequestKind   `gorm:"type:text;not null;index"`
	UserID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	InstrumentID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Quantity     int32         `gorm:"not null"`
	StartDate    time.Time     `gorm:"type:date;not null"`
	EndDate      time.Time     `gorm:"type:date;not null"`
	Status       RequestStatus `gorm:"type:text;not null;default:'PENDING';index"`

	// LocationID is resolved and persisted at approval time.
	LocationID *uuid.UUID `gorm:"type:uuid"`
	ApproverID *uuid.UUID `gorm:"type:uuid"`
	DecidedAt  *time.Time
	ReturnedAt *time.Time

	DailyRateCents int64 `gorm:"not null;default:0"`
	TotalFeeCents  int64 `gorm:"not null;default:0"`

	Note string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (ReservationRequest) TableName() string { return "reservation_requests" }

// InUseItemStatus is the item status a reservation of this kind puts its
// assigned concrete items into.
func (r *ReservationRequest) InUseItemStatus() ItemStatus {
	if r.Kind == RequestBorrow {
		return ItemBorrowed
	}
	return ItemRented
}

// RentalDays counts calendar days in the inclusive date range, minimum one.
func (r *ReservationRequest) RentalDays() int64 {
	days := int64(r.EndDate.Sub(r.StartDate)/(24*time.Hour)) + 1
	if days < 1 {
		days = 1
	}
	return days
}
