package service

import (
	"context"

	"rentalhub/internal/models"
	"rentalhub/internal/repository"

	"github.com/google/uuid"
)

type CreateInstrumentInput struct {
	Name              string
	Category          string
	DailyPriceCents   int64
	PrimaryLocationID *uuid.UUID
}

type UpdateInstrumentInput struct {
	Name              *string
	Category          *string
	DailyPriceCents   *int64
	PrimaryLocationID *uuid.UUID
	Status            *models.AvailabilityStatus
}

type InstrumentListFilter struct {
	Category        string
	IncludeArchived bool
	Limit           int
	Offset          int
}

// InstrumentDetail pairs the catalog row with the quantity the ledger
// currently has available across locations.
type InstrumentDetail struct {
	Instrument models.Instrument
	Available  int32
}

type CreateItemInput struct {
	InstrumentID uuid.UUID
	SerialNumber string
	LocationID   *uuid.UUID
}

type CreateLocationInput struct {
	Name string
	Kind models.LocationKind
}

type CreateEventServiceInput struct {
	Name       string
	PriceCents int64
}

// AvailabilityCache is the read-through cache for availability lookups.
// A nil cache disables caching; staleness is bounded by the cache TTL plus
// explicit invalidation on admin stock writes.
type AvailabilityCache interface {
	Get(ctx context.Context, instrumentID uuid.UUID) (int32, bool)
	Set(ctx context.Context, instrumentID uuid.UUID, qty int32)
	Invalidate(ctx context.Context, instrumentID uuid.UUID)
}

// CatalogService manages instruments, serialized items, locations, event
// services and the admin side of the inventory ledger.
type CatalogService interface {
	CreateInstrument(ctx context.Context, in CreateInstrumentInput) (*models.Instrument, error)
	GetInstrument(ctx context.Context, id uuid.UUID) (*InstrumentDetail, error)
	ListInstruments(ctx context.Context, f InstrumentListFilter) ([]models.Instrument, int64, error)
	UpdateInstrument(ctx context.Context, id uuid.UUID, in UpdateInstrumentInput) (*models.Instrument, error)
	ArchiveInstrument(ctx context.Context, id uuid.UUID) error

	// SetStock overwrites the ledger quantity for the instrument at the
	// given location (resolved when nil).
	SetStock(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error
	// Availability reports the total quantity available across locations.
	Availability(ctx context.Context, instrumentID uuid.UUID) (int32, error)
	// InventoryBackend reports which ledger representation was selected at
	// startup.
	InventoryBackend() repository.BackendKind

	AddItem(ctx context.Context, in CreateItemInput) (*models.InstrumentItem, error)
	ListItems(ctx context.Context, instrumentID uuid.UUID) ([]models.InstrumentItem, error)

	CreateLocation(ctx context.Context, in CreateLocationInput) (*models.Location, error)
	ListLocations(ctx context.Context, onlyActive bool) ([]models.Location, error)
	DeactivateLocation(ctx context.Context, id uuid.UUID) error

	CreateEventService(ctx context.Context, in CreateEventServiceInput) (*models.EventService, error)
	ListEventServices(ctx context.Context, onlyActive bool) ([]models.EventService, error)
}
