package service

import (
	"context"
	"errors"
	"time"

	"rentalhub/internal/models"
	"rentalhub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// approvalLockWait bounds how long an approval queues behind another
// admin's decision on the same slot before failing as retryable.
const approvalLockWait = 10 * time.Second

type bookingService struct {
	repo     *repository.Repository
	billing  InvoiceGenerator
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewBookingService(repo *repository.Repository, billing InvoiceGenerator, notifier Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		billing:  billing,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func validTimeOfDay(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

func slotLockKey(date time.Time, locationID uuid.UUID) int64 {
	return repository.LockKey("booking-approval", date.Format("2006-01-02"), locationID.String())
}

func (s *bookingService) Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if !validTimeOfDay(in.StartTime) || !validTimeOfDay(in.EndTime) || in.StartTime >= in.EndTime {
		return nil, ErrInvalidTimeRange
	}

	loc, err := s.repo.Locations.GetByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || !loc.IsActive {
		return nil, ErrLocationNotFound
	}
	if in.ServiceID != nil {
		svc, err := s.repo.Services.GetByID(ctx, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, ErrServiceNotFound
		}
	}

	now := s.now()
	booking := models.Booking{
		UserID:        userID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		ServiceID:     in.ServiceID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		LocationID:    in.LocationID,
		Status:        models.BookingPending,
		Note:          in.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var conflicts []models.Booking
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		// Conflicts never block creation, only auto-approval. The booking
		// always lands as pending and the overlap set travels back to the
		// caller for visibility.
		if err := tx.Bookings.Create(ctx, &booking); err != nil {
			return err
		}
		found, err := tx.Bookings.FindConflicts(ctx, booking.Date, booking.LocationID, booking.StartTime, booking.EndTime, booking.ID)
		if err != nil {
			return err
		}
		conflicts = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		s.log.Info("booking created with schedule conflicts",
			zap.String("booking_id", booking.ID.String()),
			zap.Int("conflicts", len(conflicts)))
	}
	return &CreateBookingResult{Booking: booking, Conflicts: conflicts}, nil
}

func (s *bookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if role != models.RoleAdmin && b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *bookingService) List(ctx context.Context, f BookingListFilter) ([]models.Booking, int64, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	if role != models.RoleAdmin {
		f.UserID = &userID
	}
	return s.repo.Bookings.List(ctx, repository.BookingListFilter{
		UserID:     f.UserID,
		LocationID: f.LocationID,
		Date:       f.Date,
		Status:     f.Status,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

func (s *bookingService) Approve(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	// Unlocked read just to derive the lock key; the authoritative state
	// is re-read under lock inside the transaction.
	target, err := s.repo.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrBookingNotFound
	}

	now := s.now()
	var approved *models.Booking

	err = s.repo.Locker.WithLock(ctx, slotLockKey(target.Date, target.LocationID), approvalLockWait, func() error {
		return s.repo.WithTx(func(tx *repository.Repository) error {
			b, err := tx.Bookings.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if b == nil {
				return ErrBookingNotFound
			}
			if b.Status != models.BookingPending {
				return ErrInvalidStateTransition
			}

			// Row locks alone cannot stop two transactions from each
			// passing this query against the other's pending row; the
			// advisory lock held around this transaction makes approval
			// decisions for the slot strictly serial.
			conflicts, err := tx.Bookings.FindConflicts(ctx, b.Date, b.LocationID, b.StartTime, b.EndTime, b.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return &ApprovalConflictError{Conflicts: conflicts}
			}

			if err := tx.Bookings.UpdateFields(ctx, b.ID, map[string]any{
				"status":      models.BookingApproved,
				"approver_id": adminID,
				"decided_at":  now,
				"updated_at":  now,
			}); err != nil {
				return err
			}

			b.Status = models.BookingApproved
			b.ApproverID = &adminID
			b.DecidedAt = &now
			approved = b
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrLockNotAcquired) {
			return nil, ErrLockTimeout
		}
		return nil, err
	}

	s.afterApprove(ctx, approved)
	return approved, nil
}

func (s *bookingService) afterApprove(ctx context.Context, b *models.Booking) {
	if s.billing != nil {
		amount := int64(0)
		if b.ServiceID != nil {
			if svc, err := s.repo.Services.GetByID(ctx, *b.ServiceID); err == nil && svc != nil {
				amount = svc.PriceCents
			}
		}
		if amount > 0 {
			_, err := s.billing.GenerateInvoice(ctx, b.UserID, amount, "booking fee for "+b.Date.Format("2006-01-02"))
			if err != nil {
				s.log.Warn("invoice generation failed after booking approval",
					zap.String("booking_id", b.ID.String()), zap.Error(err))
			}
		}
	}
	if s.notifier != nil {
		err := s.notifier.Notify(ctx, b.UserID, "booking_approved",
			"Booking approved",
			"Your booking has been approved.",
			map[string]any{"booking_id": b.ID.String()})
		if err != nil {
			s.log.Warn("notification failed after booking approval",
				zap.String("booking_id", b.ID.String()), zap.Error(err))
		}
	}
}

func (s *bookingService) Reject(ctx context.Context, id uuid.UUID, note string) (*models.Booking, error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var rejected *models.Booking

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		b, err := tx.Bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBookingNotFound
		}
		if b.Status != models.BookingPending {
			return ErrInvalidStateTransition
		}

		fields := map[string]any{
			"status":      models.BookingRejected,
			"approver_id": adminID,
			"decided_at":  now,
			"updated_at":  now,
		}
		if note != "" {
			fields["note"] = note
		}
		if err := tx.Bookings.UpdateFields(ctx, b.ID, fields); err != nil {
			return err
		}

		b.Status = models.BookingRejected
		b.ApproverID = &adminID
		b.DecidedAt = &now
		rejected = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, rejected.UserID, "booking_rejected",
			"Booking rejected", "Your booking has been rejected.",
			map[string]any{"booking_id": rejected.ID.String()})
		if err != nil {
			s.log.Warn("notification failed after booking rejection",
				zap.String("booking_id", rejected.ID.String()), zap.Error(err))
		}
	}
	return rejected, nil
}

func (s *bookingService) Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var cancelled *models.Booking

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		b, err := tx.Bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBookingNotFound
		}
		if role != models.RoleAdmin && b.UserID != userID {
			return ErrForbidden
		}
		if b.Status != models.BookingPending && b.Status != models.BookingApproved {
			return ErrInvalidStateTransition
		}

		if err := tx.Bookings.UpdateFields(ctx, b.ID, map[string]any{
			"status":     models.BookingCancelled,
			"updated_at": now,
		}); err != nil {
			return err
		}

		b.Status = models.BookingCancelled
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
