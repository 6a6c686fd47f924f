package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingPaid      BookingStatus = "PAID"
)

// Booking is a time-boxed event reservation. The scarce resource is the
// (date, location, time-range) slot; times are minute-precision "HH:MM"
// strings compared lexicographically, which is also how the overlap query
// compares them in SQL.
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	CustomerName  string        `gorm:"type:text;not null"`
	CustomerPhone string        `gorm:"type:text"`
	ServiceID     *uuid.UUID    `gorm:"type:uuid"`
	Date          time.Time     `gorm:"type:date;not null;index:ix_bookings_slot"`
	StartTime     string        `gorm:"type:char(5);not null"`
	EndTime       string        `gorm:"type:char(5);not null"`
	LocationID    uuid.UUID     `gorm:"type:uuid;not null;index:ix_bookings_slot"`
	Status        BookingStatus `gorm:"type:text;not null;default:'PENDING';index"`

	ApproverID *uuid.UUID `gorm:"type:uuid"`
	DecidedAt  *time.Time

	Note string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Booking) TableName() string { return "bookings" }

type EventService struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"type:text;not null"`
	PriceCents int64     `gorm:"not null;default:0"`
	IsActive   bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (EventService) TableName() string { return "event_services" }
