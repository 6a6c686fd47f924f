package service

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceGenerator is the billing collaborator. Approval paths call it
// post-commit, fire-and-forget: a failure is logged, never rolled back
// into the approval.
type InvoiceGenerator interface {
	GenerateInvoice(ctx context.Context, userID uuid.UUID, amountCents int64, description string) (uuid.UUID, error)
}

// Notifier is the notification collaborator, same best-effort contract.
type Notifier interface {
	Notify(ctx context.Context, recipient uuid.UUID, kind, title, message string, data map[string]any) error
}
