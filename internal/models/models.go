package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email string    `gorm:"type:text;not null;uniqueIndex"`
	Name  string    `gorm:"type:text;not null"`
	Role  Role      `gorm:"type:text;not null;default:'ROLE_CUSTOMER'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type LocationKind string

const (
	LocationPrimary   LocationKind = "PRIMARY"
	LocationSecondary LocationKind = "SECONDARY"
)

type Location struct {
	ID       uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string       `gorm:"type:text;not null"`
	Kind     LocationKind `gorm:"type:text;not null;default:'SECONDARY'"`
	IsActive bool         `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Location) TableName() string { return "locations" }

// AvailabilityStatus is the derived per-instrument status shown in listings.
// Legacy deployments also carry a "Reserved" value; writes remap it to Rented.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityRented      AvailabilityStatus = "RENTED"
	AvailabilityBorrowed    AvailabilityStatus = "BORROWED"
	AvailabilityMaintenance AvailabilityStatus = "MAINTENANCE"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
)

type Instrument struct {
	ID                 uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string             `gorm:"type:text;not null"`
	Category           string             `gorm:"type:text;not null;index"`
	DailyPriceCents    int64              `gorm:"not null;default:0"`
	AvailabilityStatus AvailabilityStatus `gorm:"type:text;not null;default:'AVAILABLE'"`
	IsArchived         bool               `gorm:"not null;default:false;index"`
	PrimaryLocationID  *uuid.UUID         `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Instrument) TableName() string { return "instruments" }

// InstrumentInventory is the aggregate quantity of one instrument at one
// location. One row per (instrument, location), quantity never below zero.
type InstrumentInventory struct {
	InstrumentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	LocationID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity     int32     `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (InstrumentInventory) TableName() string { return "instrument_inventory" }

type ItemStatus string

const (
	ItemAvailable   ItemStatus = "AVAILABLE"
	ItemRented      ItemStatus = "RENTED"
	ItemBorrowed    ItemStatus = "BORROWED"
	ItemMaintenance ItemStatus = "MAINTENANCE"
	ItemUnavailable ItemStatus = "UNAVAILABLE"
)

// InstrumentItem is a single serialized physical unit. RequestID records
// which reservation currently holds the item; it is set together with an
// in-use status and cleared together with the return to Available.
type InstrumentItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	InstrumentID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:ux_items_instrument_serial"`
	SerialNumber string     `gorm:"type:text;not null;uniqueIndex:ux_items_instrument_serial"`
	LocationID   *uuid.UUID `gorm:"type:uuid;index"`
	Status       ItemStatus `gorm:"type:text;not null;default:'AVAILABLE';index"`
	RequestID    *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (InstrumentItem) TableName() string { return "instrument_items" }
