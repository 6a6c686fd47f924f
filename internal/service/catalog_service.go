package service

import (
	"context"
	"strings"
	"time"

	"rentalhub/internal/models"
	"rentalhub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type catalogService struct {
	repo  *repository.Repository
	cache AvailabilityCache
	log   *zap.Logger
	now   func() time.Time
}

func NewCatalogService(repo *repository.Repository, cache AvailabilityCache, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

func (s *catalogService) CreateInstrument(ctx context.Context, in CreateInstrumentInput) (*models.Instrument, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" || in.Category == "" || in.DailyPriceCents < 0 {
		return nil, ErrInvalidInput
	}
	if in.PrimaryLocationID != nil {
		loc, err := s.repo.Locations.GetByID(ctx, *in.PrimaryLocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, ErrLocationNotFound
		}
	}

	inst := models.Instrument{
		Name:               in.Name,
		Category:           in.Category,
		DailyPriceCents:    in.DailyPriceCents,
		AvailabilityStatus: models.AvailabilityAvailable,
		PrimaryLocationID:  in.PrimaryLocationID,
	}
	if err := s.repo.Instruments.Create(ctx, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *catalogService) GetInstrument(ctx context.Context, id uuid.UUID) (*InstrumentDetail, error) {
	inst, err := s.repo.Instruments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstrumentNotFound
	}
	available, err := s.Availability(ctx, id)
	if err != nil {
		return nil, err
	}
	return &InstrumentDetail{Instrument: *inst, Available: available}, nil
}

func (s *catalogService) ListInstruments(ctx context.Context, f InstrumentListFilter) ([]models.Instrument, int64, error) {
	return s.repo.Instruments.List(ctx, repository.InstrumentListFilter{
		Category:        f.Category,
		IncludeArchived: f.IncludeArchived,
		Limit:           f.Limit,
		Offset:          f.Offset,
	})
}

func (s *catalogService) UpdateInstrument(ctx context.Context, id uuid.UUID, in UpdateInstrumentInput) (*models.Instrument, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	inst, err := s.repo.Instruments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstrumentNotFound
	}

	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		fields["name"] = name
	}
	if in.Category != nil {
		cat := strings.TrimSpace(*in.Category)
		if cat == "" {
			return nil, ErrInvalidInput
		}
		fields["category"] = cat
	}
	if in.DailyPriceCents != nil {
		if *in.DailyPriceCents < 0 {
			return nil, ErrInvalidInput
		}
		fields["daily_price_cents"] = *in.DailyPriceCents
	}
	if in.PrimaryLocationID != nil {
		loc, err := s.repo.Locations.GetByID(ctx, *in.PrimaryLocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, ErrLocationNotFound
		}
		fields["primary_location_id"] = *in.PrimaryLocationID
	}
	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.repo.Instruments.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	// Status goes through the dedicated writer so drifted enum domains get
	// the remap-and-retry treatment.
	if in.Status != nil {
		if err := s.repo.Instruments.UpdateAvailabilityStatus(ctx, id, *in.Status); err != nil {
			return nil, err
		}
	}
	return s.repo.Instruments.GetByID(ctx, id)
}

func (s *catalogService) ArchiveInstrument(ctx context.Context, id uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	inst, err := s.repo.Instruments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inst == nil {
		return ErrInstrumentNotFound
	}
	return s.repo.Instruments.UpdateFields(ctx, id, map[string]any{
		"is_archived": true,
		"updated_at":  s.now(),
	})
}

func (s *catalogService) SetStock(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if qty < 0 {
		return ErrInvalidQuantity
	}

	err := s.repo.WithTx(func(tx *repository.Repository) error {
		inst, err := tx.Instruments.GetByIDForUpdate(ctx, instrumentID)
		if err != nil {
			return err
		}
		if inst == nil {
			return ErrInstrumentNotFound
		}
		return tx.Inventories.SetQuantity(ctx, instrumentID, locationID, qty)
	})
	if err != nil {
		return mapLocationErr(err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, instrumentID)
	}
	return nil
}

func (s *catalogService) Availability(ctx context.Context, instrumentID uuid.UUID) (int32, error) {
	if s.cache != nil {
		if qty, ok := s.cache.Get(ctx, instrumentID); ok {
			return qty, nil
		}
	}
	qty, err := s.repo.Inventories.TotalAvailable(ctx, instrumentID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, instrumentID, qty)
	}
	return qty, nil
}

func (s *catalogService) InventoryBackend() repository.BackendKind {
	return s.repo.Inventories.Backend()
}

func (s *catalogService) AddItem(ctx context.Context, in CreateItemInput) (*models.InstrumentItem, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	if in.SerialNumber == "" {
		return nil, ErrInvalidInput
	}
	inst, err := s.repo.Instruments.GetByID(ctx, in.InstrumentID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstrumentNotFound
	}
	if in.LocationID != nil {
		loc, err := s.repo.Locations.GetByID(ctx, *in.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, ErrLocationNotFound
		}
	}

	item := models.InstrumentItem{
		InstrumentID: in.InstrumentID,
		SerialNumber: in.SerialNumber,
		LocationID:   in.LocationID,
		Status:       models.ItemAvailable,
	}
	if err := s.repo.Items.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *catalogService) ListItems(ctx context.Context, instrumentID uuid.UUID) ([]models.InstrumentItem, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.Items.ListByInstrument(ctx, instrumentID)
}

func (s *catalogService) CreateLocation(ctx context.Context, in CreateLocationInput) (*models.Location, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrInvalidInput
	}
	if in.Kind == "" {
		in.Kind = models.LocationSecondary
	}

	loc := models.Location{
		Name:     in.Name,
		Kind:     in.Kind,
		IsActive: true,
	}
	if err := s.repo.Locations.Create(ctx, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *catalogService) ListLocations(ctx context.Context, onlyActive bool) ([]models.Location, error) {
	return s.repo.Locations.List(ctx, onlyActive)
}

func (s *catalogService) DeactivateLocation(ctx context.Context, id uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	loc, err := s.repo.Locations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return ErrLocationNotFound
	}
	return s.repo.Locations.UpdateFields(ctx, id, map[string]any{"is_active": false})
}

func (s *catalogService) CreateEventService(ctx context.Context, in CreateEventServiceInput) (*models.EventService, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.PriceCents < 0 {
		return nil, ErrInvalidInput
	}

	svc := models.EventService{
		Name:       in.Name,
		PriceCents: in.PriceCents,
		IsActive:   true,
	}
	if err := s.repo.Services.Create(ctx, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *catalogService) ListEventServices(ctx context.Context, onlyActive bool) ([]models.EventService, error) {
	return s.repo.Services.List(ctx, onlyActive)
}
