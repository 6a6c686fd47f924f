package dto

import (
	"time"

	"rentalhub/internal/models"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID             uuid.UUID  `json:"id"`
	Kind           string     `json:"kind"`
	UserID         uuid.UUID  `json:"user_id"`
	InstrumentID   uuid.UUID  `json:"instrument_id"`
	Quantity       int32      `json:"quantity"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	Status         string     `json:"status"`
	LocationID     *uuid.UUID `json:"location_id,omitempty"`
	ApproverID     *uuid.UUID `json:"approver_id,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	ReturnedAt     *time.Time `json:"returned_at,omitempty"`
	DailyRateCents int64      `json:"daily_rate_cents"`
	TotalFeeCents  int64      `json:"total_fee_cents"`
	Note           string     `json:"note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func FromReservation(r models.ReservationRequest) ReservationResponse {
	return ReservationResponse{
		ID:             r.ID,
		Kind:           string(r.Kind),
		UserID:         r.UserID,
		InstrumentID:   r.InstrumentID,
		Quantity:       r.Quantity,
		StartDate:      r.StartDate.Format(dateLayout),
		EndDate:        r.EndDate.Format(dateLayout),
		Status:         string(r.Status),
		LocationID:     r.LocationID,
		ApproverID:     r.ApproverID,
		DecidedAt:      r.DecidedAt,
		ReturnedAt:     r.ReturnedAt,
		DailyRateCents: r.DailyRateCents,
		TotalFeeCents:  r.TotalFeeCents,
		Note:           r.Note,
		CreatedAt:      r.CreatedAt,
	}
}

func FromReservations(list []models.ReservationRequest) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromReservation(r))
	}
	return out
}

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	ServiceID     *uuid.UUID `json:"service_id,omitempty"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	LocationID    uuid.UUID  `json:"location_id"`
	Status        string     `json:"status"`
	ApproverID    *uuid.UUID `json:"approver_id,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	Note          string     `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromBooking(b models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		ServiceID:     b.ServiceID,
		Date:          b.Date.Format(dateLayout),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		LocationID:    b.LocationID,
		Status:        string(b.Status),
		ApproverID:    b.ApproverID,
		DecidedAt:     b.DecidedAt,
		Note:          b.Note,
		CreatedAt:     b.CreatedAt,
	}
}

func FromBookings(list []models.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, FromBooking(b))
	}
	return out
}

type CreateBookingResponse struct {
	Booking   BookingResponse   `json:"booking"`
	Conflicts []BookingResponse `json:"conflicts,omitempty"`
}

type InstrumentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Category           string     `json:"category"`
	DailyPriceCents    int64      `json:"daily_price_cents"`
	AvailabilityStatus string     `json:"availability_status"`
	IsArchived         bool       `json:"is_archived"`
	PrimaryLocationID  *uuid.UUID `json:"primary_location_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func FromInstrument(in models.Instrument) InstrumentResponse {
	return InstrumentResponse{
		ID:                 in.ID,
		Name:               in.Name,
		Category:           in.Category,
		DailyPriceCents:    in.DailyPriceCents,
		AvailabilityStatus: string(in.AvailabilityStatus),
		IsArchived:         in.IsArchived,
		PrimaryLocationID:  in.PrimaryLocationID,
		CreatedAt:          in.CreatedAt,
	}
}

func FromInstruments(list []models.Instrument) []InstrumentResponse {
	out := make([]InstrumentResponse, 0, len(list))
	for _, in := range list {
		out = append(out, FromInstrument(in))
	}
	return out
}

type InstrumentDetailResponse struct {
	InstrumentResponse
	Available int32 `json:"available"`
}

type AvailabilityResponse struct {
	InstrumentID uuid.UUID `json:"instrument_id"`
	Available    int32     `json:"available"`
}

type ItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	InstrumentID uuid.UUID  `json:"instrument_id"`
	SerialNumber string     `json:"serial_number"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	Status       string     `json:"status"`
	RequestID    *uuid.UUID `json:"request_id,omitempty"`
}

func FromItem(it models.InstrumentItem) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		InstrumentID: it.InstrumentID,
		SerialNumber: it.SerialNumber,
		LocationID:   it.LocationID,
		Status:       string(it.Status),
		RequestID:    it.RequestID,
	}
}

func FromItems(list []models.InstrumentItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromItem(it))
	}
	return out
}

type LocationResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	IsActive bool      `json:"is_active"`
}

func FromLocation(l models.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name, Kind: string(l.Kind), IsActive: l.IsActive}
}

func FromLocations(list []models.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, FromLocation(l))
	}
	return out
}

type EventServiceResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	IsActive   bool      `json:"is_active"`
}

func FromEventService(s models.EventService) EventServiceResponse {
	return EventServiceResponse{ID: s.ID, Name: s.Name, PriceCents: s.PriceCents, IsActive: s.IsActive}
}

func FromEventServices(list []models.EventService) []EventServiceResponse {
	out := make([]EventServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromEventService(s))
	}
	return out
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromNotification(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func FromNotifications(list []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, FromNotification(n))
	}
	return out
}

type InvoiceResponse struct {
	ID          uuid.UUID `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	IssuedAt    time.Time `json:"issued_at"`
}

func FromInvoice(inv models.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID,
		AmountCents: inv.AmountCents,
		Description: inv.Description,
		Status:      string(inv.Status),
		IssuedAt:    inv.IssuedAt,
	}
}

func FromInvoices(list []models.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, FromInvoice(inv))
	}
	return out
}

// ListMeta carries paging totals alongside a list payload.
type ListMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
