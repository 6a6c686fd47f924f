package schema

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Capabilities describes which inventory representation the connected
// database actually has. Detected once at startup and injected; a schema
// change requires a process restart.
type Capabilities struct {
	HasAggregateInventoryTable bool
	HasLegacyQuantityColumn    bool
	HasPrimaryLocationColumn   bool
}

// Minimal is the conservative fallback used when introspection itself
// fails: no inventory representation at all, so ledger operations degrade
// to no-ops instead of failing every request.
func Minimal() *Capabilities {
	return &Capabilities{}
}

func Detect(db *gorm.DB, log *zap.Logger) *Capabilities {
	caps := &Capabilities{}

	var hasTable bool
	err := db.Raw(`
SELECT EXISTS (
  SELECT 1 FROM information_schema.tables
  WHERE table_schema = current_schema() AND table_name = 'instrument_inventory'
)`).Scan(&hasTable).Error
	if err != nil {
		log.Warn("schema introspection failed, assuming minimal capabilities", zap.Error(err))
		return Minimal()
	}
	caps.HasAggregateInventoryTable = hasTable

	var hasQuantity bool
	err = db.Raw(`
SELECT EXISTS (
  SELECT 1 FROM information_schema.columns
  WHERE table_schema = current_schema() AND table_name = 'instruments' AND column_name = 'quantity'
)`).Scan(&hasQuantity).Error
	if err != nil {
		log.Warn("schema introspection failed, assuming minimal capabilities", zap.Error(err))
		return Minimal()
	}
	caps.HasLegacyQuantityColumn = hasQuantity

	var hasPrimaryLocation bool
	err = db.Raw(`
SELECT EXISTS (
  SELECT 1 FROM information_schema.columns
  WHERE table_schema = current_schema() AND table_name = 'instruments' AND column_name = 'primary_location_id'
)`).Scan(&hasPrimaryLocation).Error
	if err != nil {
		log.Warn("schema introspection failed, assuming minimal capabilities", zap.Error(err))
		return Minimal()
	}
	caps.HasPrimaryLocationColumn = hasPrimaryLocation

	log.Info("schema capabilities detected",
		zap.Bool("aggregate_inventory_table", caps.HasAggregateInventoryTable),
		zap.Bool("legacy_quantity_column", caps.HasLegacyQuantityColumn),
		zap.Bool("primary_location_column", caps.HasPrimaryLocationColumn),
	)
	return caps
}
