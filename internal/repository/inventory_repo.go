package repository

import (
	"context"

	"rentalhub/internal/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BackendKind string

const (
	BackendAggregate BackendKind = "aggregate"
	BackendLegacy    BackendKind = "legacy"
	BackendNone      BackendKind = "none"
)

// SelectBackend maps detected schema capabilities onto the inventory
// representation to use. The aggregate table wins over the legacy column
// when both exist.
func SelectBackend(caps *schema.Capabilities) BackendKind {
	switch {
	case caps.HasAggregateInventoryTable:
		return BackendAggregate
	case caps.HasLegacyQuantityColumn:
		return BackendLegacy
	default:
		return BackendNone
	}
}

// InventoryRepo is the aggregate quantity ledger. Mutating operations run
// on whatever handle the repo was built with, so inside WithTx they join
// the caller's transaction; they are never safe to call standalone as part
// of a multi-step sequence.
type InventoryRepo interface {
	// TotalAvailable sums aggregate quantity across all locations.
	TotalAvailable(ctx context.Context, instrumentID uuid.UUID) (int32, error)
	// QuantityAt reads the aggregate quantity at one location.
	QuantityAt(ctx context.Context, instrumentID, locationID uuid.UUID) (int32, error)
	// Decrement subtracts qty at the given location (resolved when nil),
	// upserting a zero row first and clamping the result at zero. The clamp
	// is a safety net against lost-update races; the caller's row lock is
	// the primary concurrency control.
	Decrement(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error
	// Increment adds qty at the given location (resolved when nil).
	Increment(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error
	// SetQuantity overwrites the counter at the given location (resolved
	// when nil). Admin restock path.
	SetQuantity(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error

	Backend() BackendKind
}

func NewInventoryRepo(db *gorm.DB, caps *schema.Capabilities, locations LocationRepo, log *zap.Logger) InventoryRepo {
	switch SelectBackend(caps) {
	case BackendAggregate:
		return &aggregateInventoryRepo{db: db, locations: locations}
	case BackendLegacy:
		return &legacyInventoryRepo{db: db}
	default:
		return &noopInventoryRepo{log: log}
	}
}

// aggregateInventoryRepo keeps per-(instrument, location) counters in
// instrument_inventory.
type aggregateInventoryRepo struct {
	db        *gorm.DB
	locations LocationRepo
}

func (r *aggregateInventoryRepo) Backend() BackendKind { return BackendAggregate }

func (r *aggregateInventoryRepo) TotalAvailable(ctx context.Context, instrumentID uuid.UUID) (int32, error) {
	var total int32
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(quantity), 0) FROM instrument_inventory WHERE instrument_id = @iid
`, map[string]any{"iid": instrumentID}).Scan(&total).Error
	return total, err
}

func (r *aggregateInventoryRepo) QuantityAt(ctx context.Context, instrumentID, locationID uuid.UUID) (int32, error) {
	var qty int32
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(quantity), 0) FROM instrument_inventory
WHERE instrument_id = @iid AND location_id = @lid
`, map[string]any{"iid": instrumentID, "lid": locationID}).Scan(&qty).Error
	return qty, err
}

func (r *aggregateInventoryRepo) ensureRow(ctx context.Context, instrumentID, locationID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO instrument_inventory (instrument_id, location_id, quantity, updated_at)
VALUES (@iid, @lid, 0, now())
ON CONFLICT (instrument_id, location_id) DO NOTHING
`, map[string]any{"iid": instrumentID, "lid": locationID}).Error
}

func (r *aggregateInventoryRepo) resolve(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID) (uuid.UUID, error) {
	return r.locations.Resolve(ctx, instrumentID, locationID)
}

func (r *aggregateInventoryRepo) Decrement(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error {
	loc, err := r.resolve(ctx, instrumentID, locationID)
	if err != nil {
		return err
	}
	if err := r.ensureRow(ctx, instrumentID, loc); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Exec(`
UPDATE instrument_inventory
SET quantity = quantity - @q, updated_at = now()
WHERE instrument_id = @iid AND location_id = @lid
`, map[string]any{"iid": instrumentID, "lid": loc, "q": qty}).Error; err != nil {
		return err
	}
	// Clamp in a follow-up statement so two racing decrements cannot leave
	// a negative counter behind.
	return r.db.WithContext(ctx).Exec(`
UPDATE instrument_inventory
SET quantity = 0, updated_at = now()
WHERE instrument_id = @iid AND location_id = @lid AND quantity < 0
`, map[string]any{"iid": instrumentID, "lid": loc}).Error
}

func (r *aggregateInventoryRepo) Increment(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error {
	loc, err := r.resolve(ctx, instrumentID, locationID)
	if err != nil {
		return err
	}
	if err := r.ensureRow(ctx, instrumentID, loc); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
UPDATE instrument_inventory
SET quantity = quantity + @q, updated_at = now()
WHERE instrument_id = @iid AND location_id = @lid
`, map[string]any{"iid": instrumentID, "lid": loc, "q": qty}).Error
}

func (r *aggregateInventoryRepo) SetQuantity(ctx context.Context, instrumentID uuid.UUID, locationID *uuid.UUID, qty int32) error {
	loc, err := r.resolve(ctx, instrumentID, locationID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
INSERT INTO instrument_inventory (instrument_id, location_id, quantity, updated_at)
VALUES (@iid, @lid, @q, now())
ON CONFLICT (instrument_id, location_id) DO UPDATE SET quantity = @q, updated_at = now()
`, map[string]any{"iid": instrumentID, "lid": loc, "q": qty}).Error
}

// legacyInventoryRepo serves deployments that still carry a single
// instruments.quantity column and no per-location table.
type legacyInventoryRepo struct {
	db *gorm.DB
}

func (r *legacyInventoryRepo) Backend() BackendKind { return BackendLegacy }

func (r *legacyInventoryRepo) TotalAvailable(ctx context.Context, instrumentID uuid.UUID) (int32, error) {
	var total int32
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(quantity, 0) FROM instruments WHERE id = @iid
`, map[string]any{"iid": instrumentID}).Scan(&total).Error
	return total, err
}

func (r *legacyInventoryRepo) QuantityAt(ctx context.Context, instrumentID, _ uuid.UUID) (int32, error) {
	return r.TotalAvailable(ctx, instrumentID)
}

func (r *legacyInventoryRepo) Decrement(ctx context.Context, instrumentID uuid.UUID, _ *uuid.UUID, qty int32) error {
	if err := r.db.WithContext(ctx).Exec(`
UPDATE instruments SET quantity = COALESCE(quantity, 0) - @q WHERE id = @iid
`, map[string]any{"iid": instrumentID, "q": qty}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
UPDATE instruments SET quantity = 0 WHERE id = @iid AND quantity < 0
`, map[string]any{"iid": instrumentID}).Error
}

func (r *legacyInventoryRepo) Increment(ctx context.Context, instrumentID uuid.UUID, _ *uuid.UUID, qty int32) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE instruments SET quantity = COALESCE(quantity, 0) + @q WHERE id = @iid
`, map[string]any{"iid": instrumentID, "q": qty}).Error
}

func (r *legacyInventoryRepo) SetQuantity(ctx context.Context, instrumentID uuid.UUID, _ *uuid.UUID, qty int32) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE instruments SET quantity = @q WHERE id = @iid
`, map[string]any{"iid": instrumentID, "q": qty}).Error
}

// noopInventoryRepo is the degraded mode used when introspection found no
// inventory representation at all: reads report zero, writes do nothing.
// Keeping the read paths alive beats crashing every request.
type noopInventoryRepo struct {
	log *zap.Logger
}

func (r *noopInventoryRepo) Backend() BackendKind { return BackendNone }

func (r *noopInventoryRepo) TotalAvailable(ctx context.Context, instrumentID uuid.UUID) (int32, error) {
	return 0, nil
}

func (r *noopInventoryRepo) QuantityAt(ctx context.Context, instrumentID, locationID uuid.UUID) (int32, error) {
	return 0, nil
}

func (r *noopInventoryRepo) Decrement(ctx context.Context, instrumentID uuid.UUID, _ *uuid.UUID, qty int32) error {
	r.log.Warn("inventory decrement skipped: no inventory schema detected",
		zap.String("instrument_id", instrumentID.String()), zap.Int32("qty", qty))
	return nil
}

func (r *noopInventoryRepo) Increment(ctx context.Context, instrumentID uuid.UUID, _ *uuid.UUID, qty int32) error {
	r.log.Warn("inventory increment skipped: no inventory schema detected",
		zap.String("instrument_id", instrumentID.String()), zap.Int32("qty", qty))
	return nil
}

func (r *noopInventoryRepo) SetQuantity(ctx context.Context, instrumentID uuid.UUID, _ *uuid.UUID, qty int32) error {
	r.log.Warn("inventory set skipped: no inventory schema detected",
		zap.String("instrument_id", instrumentID.String()), zap.Int32("qty", qty))
	return nil
}
