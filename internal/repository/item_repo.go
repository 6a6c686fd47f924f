package repository

import (
	"context"
	"errors"

	"rentalhub/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReleasedCounts reports what a release put back, grouped so the ledger
// can be credited at the location each item actually sat at.
type ReleasedCounts struct {
	ByLocation map[uuid.UUID]int32
	// Unpinned counts items with no location of their own; the caller
	// credits them to the resolver's default choice.
	Unpinned int32
}

func (c ReleasedCounts) Total() int32 {
	total := c.Unpinned
	for _, n := range c.ByLocation {
		total += n
	}
	return total
}

type ItemRepo interface {
	Create(ctx context.Context, item *models.InstrumentItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InstrumentItem, error)
	ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]models.InstrumentItem, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.InstrumentItem, error)

	// AssignToRequest locks and claims up to qty available items for the
	// request, preferring items at the target location or with no location
	// pinned. Finding fewer than qty is tolerated: the aggregate ledger,
	// not the item count, backs the promise made to the customer.
	AssignToRequest(ctx context.Context, requestID, instrumentID uuid.UUID, qty int32, locationID uuid.UUID, inUse models.ItemStatus) ([]uuid.UUID, error)

	// ReleaseByRequest returns every item held by the request to Available,
	// clears the holding reference and reports per-location counts.
	ReleaseByRequest(ctx context.Context, requestID uuid.UUID) (ReleasedCounts, error)
}

type itemRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewItemRepo(db *gorm.DB, log *zap.Logger) ItemRepo { return &itemRepo{db: db, log: log} }

func (r *itemRepo) Create(ctx context.Context, item *models.InstrumentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InstrumentItem, error) {
	var item models.InstrumentItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepo) ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]models.InstrumentItem, error) {
	var list []models.InstrumentItem
	err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("serial_number ASC").
		Find(&list).Error
	return list, err
}

func (r *itemRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.InstrumentItem, error) {
	var list []models.InstrumentItem
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("serial_number ASC").
		Find(&list).Error
	return list, err
}

func (r *itemRepo) lockAvailable(ctx context.Context, instrumentID uuid.UUID, limit int32, cond string, args ...any) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.InstrumentItem{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("instrument_id = ? AND status = ?", instrumentID, models.ItemAvailable).
		Where(cond, args...).
		Order("serial_number ASC").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *itemRepo) AssignToRequest(ctx context.Context, requestID, instrumentID uuid.UUID, qty int32, locationID uuid.UUID, inUse models.ItemStatus) ([]uuid.UUID, error) {
	if qty <= 0 {
		return nil, nil
	}

	// First pass: items already at the target location or not pinned
	// anywhere.
	ids, err := r.lockAvailable(ctx, instrumentID, qty,
		"(location_id = ? OR location_id IS NULL)", locationID)
	if err != nil {
		return nil, err
	}

	if remaining := qty - int32(len(ids)); remaining > 0 {
		// Second pass: items pinned at other locations.
		more, err := r.lockAvailable(ctx, instrumentID, remaining,
			"location_id IS NOT NULL AND location_id <> ?", locationID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, more...)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if int32(len(ids)) < qty {
		// Known consistency gap: the ledger promised more units than exist
		// as serialized items. Assign what was found and make it visible.
		r.log.Warn("partial concrete item assignment",
			zap.String("request_id", requestID.String()),
			zap.String("instrument_id", instrumentID.String()),
			zap.Int32("requested", qty),
			zap.Int("assigned", len(ids)))
	}

	err = r.db.WithContext(ctx).Model(&models.InstrumentItem{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":     inUse,
			"request_id": requestID,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *itemRepo) ReleaseByRequest(ctx context.Context, requestID uuid.UUID) (ReleasedCounts, error) {
	counts := ReleasedCounts{ByLocation: map[uuid.UUID]int32{}}

	var held []models.InstrumentItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		Find(&held).Error
	if err != nil {
		return counts, err
	}
	if len(held) == 0 {
		return counts, nil
	}

	for _, item := range held {
		if item.LocationID != nil {
			counts.ByLocation[*item.LocationID]++
		} else {
			counts.Unpinned++
		}
	}

	err = r.db.WithContext(ctx).Model(&models.InstrumentItem{}).
		Where("request_id = ?", requestID).
		Updates(map[string]any{
			"status":     models.ItemAvailable,
			"request_id": nil,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return ReleasedCounts{ByLocation: map[uuid.UUID]int32{}}, err
	}
	return counts, nil
}
