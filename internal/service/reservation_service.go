package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"rentalhub/internal/models"
	"rentalhub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type reservationService struct {
	repo     *repository.Repository
	billing  InvoiceGenerator
	notifier Notifier
	log      *zap.Logger

	// releaseOnCancel returns a still-pending request's hold to the ledger
	// on self-service cancel. Off by default: the historical policy is to
	// keep the hold and reconcile manually.
	releaseOnCancel bool

	now func() time.Time
}

func NewReservationService(repo *repository.Repository, billing InvoiceGenerator, notifier Notifier, releaseOnCancel bool, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:            repo,
		billing:         billing,
		notifier:        notifier,
		log:             log,
		releaseOnCancel: releaseOnCancel,
		now:             time.Now,
	}
}

// mapLocationErr translates the repository's resolver failure into the
// service taxonomy.
func mapLocationErr(err error) error {
	if errors.Is(err, repository.ErrNoActiveLocation) {
		return ErrNoLocationConfigured
	}
	return err
}

func (s *reservationService) Create(ctx context.Context, in CreateReservationInput) ([]models.ReservationRequest, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if len(in.Lines) == 0 {
		return nil, ErrEmptyItems
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidDateRange
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	if in.Kind != models.RequestBorrow && in.Kind != models.RequestRent {
		in.Kind = models.RequestBorrow
	}

	// Stable lock order across requests touching the same instruments.
	lines := make([]ReservationLine, len(in.Lines))
	copy(lines, in.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].InstrumentID.String() < lines[j].InstrumentID.String()
	})

	now := s.now()
	var created []models.ReservationRequest

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		instruments := make([]*models.Instrument, len(lines))

		// Validate every line under lock before decrementing any of them:
		// a mid-batch failure must not leave partial holds.
		for i, line := range lines {
			instr, err := tx.Instruments.GetByIDForUpdate(ctx, line.InstrumentID)
			if err != nil {
				return err
			}
			if instr == nil || instr.IsArchived {
				return ErrInstrumentNotFound
			}
			available, err := tx.Inventories.TotalAvailable(ctx, line.InstrumentID)
			if err != nil {
				return err
			}
			if available < line.Quantity {
				return &InsufficientInventoryError{
					InstrumentID: line.InstrumentID.String(),
					Requested:    line.Quantity,
					Available:    available,
				}
			}
			instruments[i] = instr
		}

		for i, line := range lines {
			if err := tx.Inventories.Decrement(ctx, line.InstrumentID, line.LocationID, line.Quantity); err != nil {
				return mapLocationErr(err)
			}

			req := models.ReservationRequest{
				Kind:         in.Kind,
				UserID:       userID,
				InstrumentID: line.InstrumentID,
				Quantity:     line.Quantity,
				StartDate:    in.StartDate,
				EndDate:      in.EndDate,
				Status:       models.RequestPending,
				Note:         in.Note,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if in.Kind == models.RequestRent {
				req.DailyRateCents = instruments[i].DailyPriceCents
				req.TotalFeeCents = req.DailyRateCents * req.RentalDays() * int64(line.Quantity)
			}
			if err := tx.Requests.Create(ctx, &req); err != nil {
				return err
			}
			created = append(created, req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *reservationService) Get(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	req, err := s.repo.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrReservationNotFound
	}
	if role != models.RoleAdmin && req.UserID != userID {
		return nil, ErrForbidden
	}
	return req, nil
}

func (s *reservationService) List(ctx context.Context, f ReservationListFilter) ([]models.ReservationRequest, int64, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	if role != models.RoleAdmin {
		f.UserID = &userID
	}
	return s.repo.Requests.List(ctx, repository.RequestListFilter{
		UserID:       f.UserID,
		InstrumentID: f.InstrumentID,
		Kind:         f.Kind,
		Status:       f.Status,
		Limit:        f.Limit,
		Offset:       f.Offset,
	})
}

func (s *reservationService) Approve(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var approved *models.ReservationRequest

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		req, err := tx.Requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrReservationNotFound
		}
		if req.Status != models.RequestPending {
			return ErrInvalidStateTransition
		}

		loc, err := tx.Locations.Resolve(ctx, req.InstrumentID, req.LocationID)
		if err != nil {
			return mapLocationErr(err)
		}

		if _, err := tx.Items.AssignToRequest(ctx, req.ID, req.InstrumentID, req.Quantity, loc, req.InUseItemStatus()); err != nil {
			return err
		}

		if err := tx.Requests.UpdateFields(ctx, req.ID, map[string]any{
			"status":      models.RequestApproved,
			"approver_id": adminID,
			"decided_at":  now,
			"location_id": loc,
			"updated_at":  now,
		}); err != nil {
			return err
		}

		if err := s.refreshAvailability(ctx, tx, req.InstrumentID, req.Kind); err != nil {
			return err
		}

		req.Status = models.RequestApproved
		req.ApproverID = &adminID
		req.DecidedAt = &now
		req.LocationID = &loc
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterApprove(ctx, approved)
	return approved, nil
}

// afterApprove runs the best-effort side effects outside the transaction:
// a failed invoice or notification never unwinds an approval.
func (s *reservationService) afterApprove(ctx context.Context, req *models.ReservationRequest) {
	if s.billing != nil && req.TotalFeeCents > 0 {
		_, err := s.billing.GenerateInvoice(ctx, req.UserID, req.TotalFeeCents, "rental fee for reservation "+req.ID.String())
		if err != nil {
			s.log.Warn("invoice generation failed after approval",
				zap.String("request_id", req.ID.String()), zap.Error(err))
		}
	}
	if s.notifier != nil {
		err := s.notifier.Notify(ctx, req.UserID, "reservation_approved",
			"Reservation approved",
			"Your reservation request has been approved.",
			map[string]any{"request_id": req.ID.String()})
		if err != nil {
			s.log.Warn("notification failed after approval",
				zap.String("request_id", req.ID.String()), zap.Error(err))
		}
	}
}

func (s *reservationService) Reject(ctx context.Context, id uuid.UUID, note string) (*models.ReservationRequest, error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var rejected *models.ReservationRequest

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		req, err := tx.Requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrReservationNotFound
		}
		if req.Status != models.RequestPending {
			return ErrInvalidStateTransition
		}

		// Give the held units back. The request row does not track a
		// location, so the resolver's default choice receives them.
		if err := tx.Inventories.Increment(ctx, req.InstrumentID, req.LocationID, req.Quantity); err != nil {
			return mapLocationErr(err)
		}

		fields := map[string]any{
			"status":      models.RequestRejected,
			"approver_id": adminID,
			"decided_at":  now,
			"updated_at":  now,
		}
		if note != "" {
			fields["note"] = note
		}
		if err := tx.Requests.UpdateFields(ctx, req.ID, fields); err != nil {
			return err
		}

		req.Status = models.RequestRejected
		req.ApproverID = &adminID
		req.DecidedAt = &now
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBestEffort(ctx, rejected.UserID, "reservation_rejected",
		"Reservation rejected", "Your reservation request has been rejected.", rejected.ID)
	return rejected, nil
}

func (s *reservationService) Cancel(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var cancelled *models.ReservationRequest

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		req, err := tx.Requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrReservationNotFound
		}
		if role != models.RoleAdmin && req.UserID != userID {
			return ErrForbidden
		}
		switch req.Status {
		case models.RequestCancelled, models.RequestRejected, models.RequestReturned:
			return ErrInvalidStateTransition
		}

		if s.releaseOnCancel && req.Status == models.RequestPending {
			if err := tx.Inventories.Increment(ctx, req.InstrumentID, req.LocationID, req.Quantity); err != nil {
				return mapLocationErr(err)
			}
		}

		if err := tx.Requests.UpdateFields(ctx, req.ID, map[string]any{
			"status":     models.RequestCancelled,
			"updated_at": now,
		}); err != nil {
			return err
		}

		req.Status = models.RequestCancelled
		cancelled = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *reservationService) Return(ctx context.Context, id uuid.UUID) (*models.ReservationRequest, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	var returned *models.ReservationRequest

	err := s.repo.WithTx(func(tx *repository.Repository) error {
		req, err := tx.Requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrReservationNotFound
		}
		if req.Status != models.RequestApproved {
			return ErrInvalidStateTransition
		}

		counts, err := tx.Items.ReleaseByRequest(ctx, req.ID)
		if err != nil {
			return err
		}

		if counts.Total() > 0 {
			// Credit each location with exactly what came back to it. A
			// single blanket increment would mis-attribute quantity after
			// items moved between locations.
			for locID, n := range counts.ByLocation {
				loc := locID
				if err := tx.Inventories.Increment(ctx, req.InstrumentID, &loc, n); err != nil {
					return mapLocationErr(err)
				}
			}
			if counts.Unpinned > 0 {
				if err := tx.Inventories.Increment(ctx, req.InstrumentID, req.LocationID, counts.Unpinned); err != nil {
					return mapLocationErr(err)
				}
			}
		} else {
			// No serialized items were ever assigned; return the aggregate
			// hold as a whole.
			if err := tx.Inventories.Increment(ctx, req.InstrumentID, req.LocationID, req.Quantity); err != nil {
				return mapLocationErr(err)
			}
		}

		if err := tx.Requests.UpdateFields(ctx, req.ID, map[string]any{
			"status":      models.RequestReturned,
			"returned_at": now,
			"updated_at":  now,
		}); err != nil {
			return err
		}

		if err := s.refreshAvailability(ctx, tx, req.InstrumentID, req.Kind); err != nil {
			return err
		}

		req.Status = models.RequestReturned
		req.ReturnedAt = &now
		returned = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBestEffort(ctx, returned.UserID, "reservation_returned",
		"Return processed", "Your reservation has been marked as returned.", returned.ID)
	return returned, nil
}

// refreshAvailability recomputes the instrument's derived status from the
// remaining aggregate quantity.
func (s *reservationService) refreshAvailability(ctx context.Context, tx *repository.Repository, instrumentID uuid.UUID, kind models.RequestKind) error {
	remaining, err := tx.Inventories.TotalAvailable(ctx, instrumentID)
	if err != nil {
		return err
	}
	status := models.AvailabilityAvailable
	if remaining <= 0 {
		if kind == models.RequestBorrow {
			status = models.AvailabilityBorrowed
		} else {
			status = models.AvailabilityRented
		}
	}
	return tx.Instruments.UpdateAvailabilityStatus(ctx, instrumentID, status)
}

func (s *reservationService) notifyBestEffort(ctx context.Context, userID uuid.UUID, kind, title, message string, requestID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, userID, kind, title, message,
		map[string]any{"request_id": requestID.String()})
	if err != nil {
		s.log.Warn("notification failed",
			zap.String("kind", kind),
			zap.String("request_id", requestID.String()),
			zap.Error(err))
	}
}
