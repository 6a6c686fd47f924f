package service

import (
	"errors"
	"fmt"

	"rentalhub/internal/models"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrInstrumentNotFound  = errors.New("instrument not found")
	ErrReservationNotFound = errors.New("reservation request not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrServiceNotFound     = errors.New("event service not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidQuantity  = errors.New("quantity must be > 0")
	ErrInvalidDateRange = errors.New("end date must not precede start date")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrEmptyItems       = errors.New("reservation items empty")

	// ErrInsufficientInventory: requested quantity exceeds what the ledger
	// has available. Wrapped by InsufficientInventoryError.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrNoLocationConfigured: no active location exists to hold the
	// reservation. Never silently defaulted.
	ErrNoLocationConfigured = errors.New("no active location configured")

	// ErrInvalidStateTransition: the request/booking is not in the state
	// the transition requires.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrApprovalConflict: booking approval blocked by an overlapping
	// approved or pending booking. Wrapped by ApprovalConflictError.
	ErrApprovalConflict = errors.New("booking conflicts with existing bookings")

	// ErrLockTimeout: the advisory lock was not acquired within the bound;
	// retryable.
	ErrLockTimeout = errors.New("approval lock not acquired, try again")
)

// InsufficientInventoryError carries the quantity actually available so
// the caller can show it. errors.Is(err, ErrInsufficientInventory) holds.
type InsufficientInventoryError struct {
	InstrumentID string
	Requested    int32
	Available    int32
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for instrument %s: requested %d, available %d",
		e.InstrumentID, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

// ApprovalConflictError lists the bookings that block an approval.
// errors.Is(err, ErrApprovalConflict) holds.
type ApprovalConflictError struct {
	Conflicts []models.Booking
}

func (e *ApprovalConflictError) Error() string {
	return fmt.Sprintf("booking conflicts with %d existing booking(s)", len(e.Conflicts))
}

func (e *ApprovalConflictError) Is(target error) bool {
	return target == ErrApprovalConflict
}
