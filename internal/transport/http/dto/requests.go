package dto

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

type ReservationLineRequest struct {
	InstrumentID uuid.UUID  `json:"instrument_id" binding:"required"`
	Quantity     int32      `json:"quantity" binding:"required"`
	LocationID   *uuid.UUID `json:"location_id"`
}

type CreateReservationRequest struct {
	Kind      string                   `json:"kind" binding:"required,oneof=BORROW RENT"`
	StartDate string                   `json:"start_date" binding:"required"`
	EndDate   string                   `json:"end_date" binding:"required"`
	Note      string                   `json:"note"`
	Items     []ReservationLineRequest `json:"items" binding:"required"`
}

type RejectRequest struct {
	Note string `json:"note"`
}

type CreateBookingRequest struct {
	CustomerName  string     `json:"customer_name" binding:"required"`
	CustomerPhone string     `json:"customer_phone"`
	ServiceID     *uuid.UUID `json:"service_id"`
	Date          string     `json:"date" binding:"required"`
	StartTime     string     `json:"start_time" binding:"required"`
	EndTime       string     `json:"end_time" binding:"required"`
	LocationID    uuid.UUID  `json:"location_id" binding:"required"`
	Note          string     `json:"note"`
}

type CreateInstrumentRequest struct {
	Name              string     `json:"name" binding:"required"`
	Category          string     `json:"category" binding:"required"`
	DailyPriceCents   int64      `json:"daily_price_cents"`
	PrimaryLocationID *uuid.UUID `json:"primary_location_id"`
}

type UpdateInstrumentRequest struct {
	Name              *string    `json:"name"`
	Category          *string    `json:"category"`
	DailyPriceCents   *int64     `json:"daily_price_cents"`
	PrimaryLocationID *uuid.UUID `json:"primary_location_id"`
	Status            *string    `json:"status"`
}

type SetInventoryRequest struct {
	LocationID *uuid.UUID `json:"location_id"`
	Quantity   int32      `json:"quantity"`
}

type CreateItemRequest struct {
	SerialNumber string     `json:"serial_number" binding:"required"`
	LocationID   *uuid.UUID `json:"location_id"`
}

type CreateLocationRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"omitempty,oneof=PRIMARY SECONDARY"`
}

type CreateEventServiceRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents"`
}
