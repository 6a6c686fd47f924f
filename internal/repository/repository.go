package repository

import (
	"rentalhub/internal/schema"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB

	Users         UserRepo
	Locations     LocationRepo
	Instruments   InstrumentRepo
	Inventories   InventoryRepo
	Items         ItemRepo
	Requests      RequestRepo
	Bookings      BookingRepo
	Services      EventServiceRepo
	Invoices      InvoiceRepo
	Notifications NotificationRepo

	// Locker acquires session-level advisory locks on its own pinned
	// connection, so it is shared across WithTx rebuilds instead of being
	// bound to the transaction handle.
	Locker *AdvisoryLocker

	caps *schema.Capabilities
	log  *zap.Logger
}

func buildRepository(db *gorm.DB, caps *schema.Capabilities, locker *AdvisoryLocker, log *zap.Logger) *Repository {
	locations := NewLocationRepo(db, caps)
	return &Repository{
		DB:            db,
		Users:         NewUserRepo(db),
		Locations:     locations,
		Instruments:   NewInstrumentRepo(db),
		Inventories:   NewInventoryRepo(db, caps, locations, log),
		Items:         NewItemRepo(db, log),
		Requests:      NewRequestRepo(db),
		Bookings:      NewBookingRepo(db),
		Services:      NewEventServiceRepo(db),
		Invoices:      NewInvoiceRepo(db),
		Notifications: NewNotificationRepo(db),
		Locker:        locker,
		caps:          caps,
		log:           log,
	}
}

func New(db *gorm.DB, caps *schema.Capabilities, log *zap.Logger) *Repository {
	return buildRepository(db, caps, NewAdvisoryLocker(db), log)
}

// WithTx runs fn with every repo rebound to one transaction.
func (r *Repository) WithTx(fn func(tx *Repository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx, r.caps, r.Locker, r.log))
	})
}
