package migrate

import (
	"context"

	"rentalhub/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	CreateExtensions bool // pgcrypto for gen_random_uuid
	CreateChecks     bool
	CreateIndexes    bool
	CreateFKsViaSQL  bool
}

func DefaultOptions() Options {
	return Options{
		CreateExtensions: true,
		CreateChecks:     true,
		CreateIndexes:    true,
		CreateFKsViaSQL:  true,
	}
}

func Run(ctx context.Context, db *gorm.DB, log *zap.Logger, opt Options) error {
	log.Info("starting database migration")

	if opt.CreateExtensions {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("pgcrypto extension", zap.Error(err))
			return err
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Instrument{},
		&models.InstrumentInventory{},
		&models.InstrumentItem{},
		&models.ReservationRequest{},
		&models.Booking{},
		&models.EventService{},
		&models.Invoice{},
		&models.Notification{},
	); err != nil {
		log.Error("automigrate", zap.Error(err))
		return err
	}

	if opt.CreateChecks {
		// Aggregate quantity must never be persisted negative; the ledger
		// clamp keeps normal flow away from this constraint.
		if err := db.Exec(`
ALTER TABLE instrument_inventory
	DROP CONSTRAINT IF EXISTS chk_inventory_quantity_non_negative,
	ADD CONSTRAINT chk_inventory_quantity_non_negative
	CHECK (quantity >= 0);
`).Error; err != nil {
			log.Error("chk inventory quantity", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE reservation_requests
	DROP CONSTRAINT IF EXISTS chk_requests_quantity_gt_zero,
	ADD CONSTRAINT chk_requests_quantity_gt_zero
	CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("chk request quantity", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE reservation_requests
	DROP CONSTRAINT IF EXISTS chk_requests_status_allowed,
	ADD CONSTRAINT chk_requests_status_allowed
	CHECK (status IN ('PENDING','APPROVED','REJECTED','CANCELLED','RETURNED'));
`).Error; err != nil {
			log.Error("chk request status", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE bookings
	DROP CONSTRAINT IF EXISTS chk_bookings_time_order,
	ADD CONSTRAINT chk_bookings_time_order
	CHECK (start_time < end_time);
`).Error; err != nil {
			log.Error("chk booking time order", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE bookings
	DROP CONSTRAINT IF EXISTS chk_bookings_status_allowed,
	ADD CONSTRAINT chk_bookings_status_allowed
	CHECK (status IN ('PENDING','APPROVED','REJECTED','CANCELLED','PAID'));
`).Error; err != nil {
			log.Error("chk booking status", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE instrument_items
	DROP CONSTRAINT IF EXISTS chk_items_status_allowed,
	ADD CONSTRAINT chk_items_status_allowed
	CHECK (status IN ('AVAILABLE','RENTED','BORROWED','MAINTENANCE','UNAVAILABLE'));
`).Error; err != nil {
			log.Error("chk item status", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		// The booking approval path hits (date, location, status) hard.
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_bookings_slot_status
ON bookings (date, location_id, status);
`).Error; err != nil {
			log.Error("ix bookings slot", zap.Error(err))
			return err
		}

		// Open holds only: items currently attached to a reservation.
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_items_open_holds
ON instrument_items (request_id)
WHERE request_id IS NOT NULL;
`).Error; err != nil {
			log.Error("ix items open holds", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_requests_instrument_status
ON reservation_requests (instrument_id, status);
`).Error; err != nil {
			log.Error("ix requests instrument status", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		if err := db.Exec(`
ALTER TABLE instrument_inventory
  DROP CONSTRAINT IF EXISTS fk_inventory_instrument,
  ADD CONSTRAINT fk_inventory_instrument
    FOREIGN KEY (instrument_id) REFERENCES instruments(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk inventory.instrument_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE instrument_inventory
  DROP CONSTRAINT IF EXISTS fk_inventory_location,
  ADD CONSTRAINT fk_inventory_location
    FOREIGN KEY (location_id) REFERENCES locations(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk inventory.location_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE instrument_items
  DROP CONSTRAINT IF EXISTS fk_items_instrument,
  ADD CONSTRAINT fk_items_instrument
    FOREIGN KEY (instrument_id) REFERENCES instruments(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk items.instrument_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE reservation_requests
  DROP CONSTRAINT IF EXISTS fk_requests_instrument,
  ADD CONSTRAINT fk_requests_instrument
    FOREIGN KEY (instrument_id) REFERENCES instruments(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk requests.instrument_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE bookings
  DROP CONSTRAINT IF EXISTS fk_bookings_location,
  ADD CONSTRAINT fk_bookings_location
    FOREIGN KEY (location_id) REFERENCES locations(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk bookings.location_id", zap.Error(err))
			return err
		}
	}

	log.Info("database migration completed")
	return nil
}
