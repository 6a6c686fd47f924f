package models

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "ISSUED"
	InvoicePaid   InvoiceStatus = "PAID"
)

type Invoice struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	AmountCents int64         `gorm:"not null"`
	Description string        `gorm:"type:text;not null"`
	Status      InvoiceStatus `gorm:"type:text;not null;default:'ISSUED'"`

	IssuedAt time.Time `gorm:"not null;default:now();index"`
}

func (Invoice) TableName() string { return "invoices" }

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type    string    `gorm:"type:text;not null"`
	Title   string    `gorm:"type:text;not null"`
	Message string    `gorm:"type:text;not null"`
	Data    []byte    `gorm:"type:jsonb"`
	ReadAt  *time.Time

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Notification) TableName() string { return "notifications" }
