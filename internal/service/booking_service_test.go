package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rentalhub/internal/models"
	"rentalhub/internal/repository"
	"rentalhub/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var bookingDate = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

func createEventService(t *testing.T, repo *repository.Repository, name string, priceCents int64) *models.EventService {
	t.Helper()
	svc := &models.EventService{Name: name, PriceCents: priceCents, IsActive: true}
	if err := repo.Services.Create(context.Background(), svc); err != nil {
		t.Fatalf("create event service: %v", err)
	}
	return svc
}

func bookingInput(locationID uuid.UUID, start, end string) service.CreateBookingInput {
	return service.CreateBookingInput{
		CustomerName: "Ada Smith",
		Date:         bookingDate,
		StartTime:    start,
		EndTime:      end,
		LocationID:   locationID,
	}
}

func TestBookingService_CreateSurfacesConflicts(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Main")

	ctx, _ := customerCtx()
	first, err := svc.Create(ctx, bookingInput(loc.ID, "10:00", "12:00"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(first.Conflicts) != 0 {
		t.Fatalf("first booking must not conflict, got %d", len(first.Conflicts))
	}
	if first.Booking.Status != models.BookingPending {
		t.Fatalf("expected PENDING, got %s", first.Booking.Status)
	}

	otherCtx, _ := customerCtx()
	second, err := svc.Create(otherCtx, bookingInput(loc.ID, "11:00", "13:00"))
	if err != nil {
		t.Fatalf("overlap must not block creation: %v", err)
	}
	if len(second.Conflicts) != 1 || second.Conflicts[0].ID != first.Booking.ID {
		t.Fatalf("expected the first booking surfaced as conflict, got %+v", second.Conflicts)
	}
	if second.Booking.Status != models.BookingPending {
		t.Fatalf("conflicted booking still lands pending, got %s", second.Booking.Status)
	}

	// Adjacent slot, no conflict.
	third, err := svc.Create(ctx, bookingInput(loc.ID, "12:00", "13:00"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(third.Conflicts) != 0 {
		t.Fatalf("back-to-back slots must not conflict, got %d", len(third.Conflicts))
	}
}

func TestBookingService_CreateValidation(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Main")
	ctx, _ := customerCtx()

	for _, tc := range []struct {
		name       string
		start, end string
	}{
		{"reversed", "14:00", "12:00"},
		{"zero length", "12:00", "12:00"},
		{"malformed", "noon", "13:00"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, bookingInput(loc.ID, tc.start, tc.end))
			if !errors.Is(err, service.ErrInvalidTimeRange) {
				t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
			}
		})
	}

	if _, err := svc.Create(ctx, bookingInput(uuid.New(), "10:00", "11:00")); !errors.Is(err, service.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	in := bookingInput(loc.ID, "10:00", "11:00")
	unknown := uuid.New()
	in.ServiceID = &unknown
	if _, err := svc.Create(ctx, in); !errors.Is(err, service.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestBookingService_CreateRejectsInactiveLocation(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Closed")
	if err := repo.Locations.UpdateFields(context.Background(), loc.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	ctx, _ := customerCtx()
	if _, err := svc.Create(ctx, bookingInput(loc.ID, "10:00", "11:00")); !errors.Is(err, service.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound for inactive location, got %v", err)
	}
}

func TestBookingService_ApproveHappyPath(t *testing.T) {
	repo := setupRepository(t)
	billing := &mockBilling{}
	notifier := &mockNotifier{}
	svc := service.NewBookingService(repo, billing, notifier, zap.NewNop())
	loc := createLocation(t, repo, "Main")
	event := createEventService(t, repo, "Wedding package", 25000)

	ctx, _ := customerCtx()
	in := bookingInput(loc.ID, "10:00", "12:00")
	in.ServiceID = &event.ID
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	admCtx, adminID := adminCtx()
	approved, err := svc.Approve(admCtx, created.Booking.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.BookingApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}
	if approved.ApproverID == nil || *approved.ApproverID != adminID {
		t.Fatalf("expected approver recorded")
	}
	if approved.DecidedAt == nil {
		t.Fatalf("expected decision timestamp")
	}

	amounts := billing.amounts()
	if len(amounts) != 1 || amounts[0] != 25000 {
		t.Fatalf("expected invoice for the service price, got %v", amounts)
	}
	kinds := notifier.sent()
	if len(kinds) != 1 || kinds[0] != "booking_approved" {
		t.Fatalf("expected approval notification, got %v", kinds)
	}
}

func TestBookingService_ApproveWithoutServiceSkipsInvoice(t *testing.T) {
	repo := setupRepository(t)
	billing := &mockBilling{}
	svc := service.NewBookingService(repo, billing, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Main")

	ctx, _ := customerCtx()
	created, _ := svc.Create(ctx, bookingInput(loc.ID, "10:00", "11:00"))

	admCtx, _ := adminCtx()
	if _, err := svc.Approve(admCtx, created.Booking.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got := billing.amounts(); len(got) != 0 {
		t.Fatalf("no service attached, no invoice expected, got %v", got)
	}
}

func TestBookingService_ApproveBlockedByApprovedOverlap(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Main")

	ctx, _ := customerCtx()
	winner, _ := svc.Create(ctx, bookingInput(loc.ID, "10:00", "12:00"))
	loser, _ := svc.Create(ctx, bookingInput(loc.ID, "11:00", "13:00"))

	admCtx, _ := adminCtx()
	if _, err := svc.Approve(admCtx, winner.Booking.ID); err == nil {
		// The winner sees the loser's pending row as a conflict too; the
		// protocol refuses both until one is rejected or cancelled.
		t.Fatalf("expected conflict against the pending overlap")
	} else if !errors.Is(err, service.ErrApprovalConflict) {
		t.Fatalf("expected ErrApprovalConflict, got %v", err)
	}

	if _, err := svc.Cancel(ctx, loser.Booking.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	approved, err := svc.Approve(admCtx, winner.Booking.ID)
	if err != nil {
		t.Fatalf("Approve after overlap cancelled: %v", err)
	}
	if approved.Status != models.BookingApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}

	// A new overlapping booking now collides with the approved one and the
	// error names it.
	late, _ := svc.Create(ctx, bookingInput(loc.ID, "11:30", "12:30"))
	_, err = svc.Approve(admCtx, late.Booking.ID)
	var conflictErr *service.ApprovalConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ApprovalConflictError, got %v", err)
	}
	if len(conflictErr.Conflicts) != 1 || conflictErr.Conflicts[0].ID != approved.ID {
		t.Fatalf("expected the approved booking listed, got %+v", conflictErr.Conflicts)
	}
}

func TestBookingService_ConcurrentApprovalOneWinner(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Main")

	ctx, _ := customerCtx()
	created, err := svc.Create(ctx, bookingInput(loc.ID, "10:00", "12:00"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Several admins race to approve the same booking. The slot lock plus
	// the pending check under the row lock let exactly one through.
	const racers = 4
	results := make([]error, racers)
	approvers := make([]uuid.UUID, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			admCtx, adminID := adminCtx()
			approvers[i] = adminID
			_, results[i] = svc.Approve(admCtx, created.Booking.ID)
		}(i)
	}
	wg.Wait()

	var wins, rejectedTransitions int
	winner := -1
	for i, err := range results {
		switch {
		case err == nil:
			wins++
			winner = i
		case errors.Is(err, service.ErrInvalidStateTransition):
			rejectedTransitions++
		default:
			t.Fatalf("unexpected approval error: %v", err)
		}
	}
	if wins != 1 || rejectedTransitions != racers-1 {
		t.Fatalf("expected exactly one winner, got %d wins, %d invalid transitions", wins, rejectedTransitions)
	}

	admCtx, _ := adminCtx()
	got, err := svc.Get(admCtx, created.Booking.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.BookingApproved {
		t.Fatalf("expected APPROVED persisted, got %s", got.Status)
	}
	if got.ApproverID == nil || *got.ApproverID != approvers[winner] {
		t.Fatalf("persisted approver does not match the winning admin")
	}
}

func TestBookingService_MutualPendingOverlapBlocksBoth(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Main")

	ctx, _ := customerCtx()
	a, _ := svc.Create(ctx, bookingInput(loc.ID, "10:00", "12:00"))
	b, _ := svc.Create(ctx, bookingInput(loc.ID, "11:00", "13:00"))

	// Two admins race to approve two mutually overlapping pending bookings.
	// Pending rows count as conflicts, so neither approval may pass; the
	// slot lock guarantees the checks run serially rather than each missing
	// the other mid-flight.
	ids := []uuid.UUID{a.Booking.ID, b.Booking.ID}
	results := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			admCtx, _ := adminCtx()
			_, results[i] = svc.Approve(admCtx, id)
		}(i, id)
	}
	wg.Wait()

	for i, err := range results {
		if !errors.Is(err, service.ErrApprovalConflict) {
			t.Fatalf("approval %d: expected ErrApprovalConflict, got %v", i, err)
		}
	}

	for _, id := range ids {
		admCtx, _ := adminCtx()
		got, err := svc.Get(admCtx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Status != models.BookingPending {
			t.Fatalf("expected both still PENDING, got %s", got.Status)
		}
	}
}

func TestBookingService_ApproveIndependentSlots(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	locA := createLocation(t, repo, "Hall A")
	locB := createLocation(t, repo, "Hall B")

	ctx, _ := customerCtx()
	atA, _ := svc.Create(ctx, bookingInput(locA.ID, "10:00", "12:00"))
	atB, _ := svc.Create(ctx, bookingInput(locB.ID, "10:00", "12:00"))

	admCtx, _ := adminCtx()
	if _, err := svc.Approve(admCtx, atA.Booking.ID); err != nil {
		t.Fatalf("Approve at A: %v", err)
	}
	// Same date and time at another location is a different slot.
	if _, err := svc.Approve(admCtx, atB.Booking.ID); err != nil {
		t.Fatalf("Approve at B: %v", err)
	}
}

func TestBookingService_RejectAndCancelTransitions(t *testing.T) {
	repo := setupRepository(t)
	notifier := &mockNotifier{}
	svc := service.NewBookingService(repo, &mockBilling{}, notifier, zap.NewNop())
	loc := createLocation(t, repo, "Main")
	admCtx, _ := adminCtx()
	custCtx, _ := customerCtx()

	rejectMe, _ := svc.Create(custCtx, bookingInput(loc.ID, "09:00", "10:00"))
	rejected, err := svc.Reject(admCtx, rejectMe.Booking.ID, "double booked offline")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != models.BookingRejected {
		t.Fatalf("expected REJECTED, got %s", rejected.Status)
	}
	if _, err := svc.Reject(admCtx, rejectMe.Booking.ID, ""); !errors.Is(err, service.ErrInvalidStateTransition) {
		t.Fatalf("reject rejected: expected ErrInvalidStateTransition, got %v", err)
	}
	if _, err := svc.Approve(admCtx, rejectMe.Booking.ID); !errors.Is(err, service.ErrInvalidStateTransition) {
		t.Fatalf("approve rejected: expected ErrInvalidStateTransition, got %v", err)
	}
	if kinds := notifier.sent(); len(kinds) != 1 || kinds[0] != "booking_rejected" {
		t.Fatalf("expected rejection notification, got %v", kinds)
	}

	// Cancel works from pending and approved, by owner or admin only.
	cancelMe, _ := svc.Create(custCtx, bookingInput(loc.ID, "10:00", "11:00"))
	strangerCtx, _ := customerCtx()
	if _, err := svc.Cancel(strangerCtx, cancelMe.Booking.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("stranger cancel: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Cancel(custCtx, cancelMe.Booking.ID); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if _, err := svc.Cancel(custCtx, cancelMe.Booking.ID); !errors.Is(err, service.ErrInvalidStateTransition) {
		t.Fatalf("cancel cancelled: expected ErrInvalidStateTransition, got %v", err)
	}

	approvedThenCancelled, _ := svc.Create(custCtx, bookingInput(loc.ID, "14:00", "15:00"))
	if _, err := svc.Approve(admCtx, approvedThenCancelled.Booking.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.Cancel(admCtx, approvedThenCancelled.Booking.ID); err != nil {
		t.Fatalf("admin cancel approved: %v", err)
	}
}

func TestBookingService_GetScopedToOwner(t *testing.T) {
	repo := setupRepository(t)
	svc := service.NewBookingService(repo, &mockBilling{}, &mockNotifier{}, zap.NewNop())
	loc := createLocation(t, repo, "Main")

	ownerCtx, ownerID := customerCtx()
	created, _ := svc.Create(ownerCtx, bookingInput(loc.ID, "10:00", "11:00"))

	strangerCtx, _ := customerCtx()
	if _, err := svc.Get(strangerCtx, created.Booking.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	admCtx, _ := adminCtx()
	got, err := svc.Get(admCtx, created.Booking.ID)
	if err != nil {
		t.Fatalf("admin Get: %v", err)
	}
	if got.UserID != ownerID {
		t.Fatalf("unexpected owner: %s", got.UserID)
	}

	// Non-admin listing only sees own bookings.
	mine, total, err := svc.List(ownerCtx, service.BookingListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(mine) != 1 {
		t.Fatalf("expected owner to list 1 booking, got %d", total)
	}
	othersView, total, err := svc.List(strangerCtx, service.BookingListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(othersView) != 0 {
		t.Fatalf("stranger must see no bookings, got %d", total)
	}
}
