package service_test

import (
	"context"
	"sync"
	"testing"

	"rentalhub/internal/migrate"
	"rentalhub/internal/models"
	"rentalhub/internal/repository"
	"rentalhub/internal/schema"
	"rentalhub/internal/service"
	"rentalhub/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupRepository(t *testing.T) *repository.Repository {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Run(context.Background(), db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	caps := schema.Detect(db, zap.NewNop())
	return repository.New(db, caps, zap.NewNop())
}

func adminCtx() (context.Context, uuid.UUID) {
	id := uuid.New()
	ctx := service.WithUserID(context.Background(), id)
	ctx = service.WithRole(ctx, models.RoleAdmin)
	return ctx, id
}

func customerCtx() (context.Context, uuid.UUID) {
	id := uuid.New()
	ctx := service.WithUserID(context.Background(), id)
	ctx = service.WithRole(ctx, models.RoleCustomer)
	return ctx, id
}

func ctxForUser(id uuid.UUID, role models.Role) context.Context {
	ctx := service.WithUserID(context.Background(), id)
	return service.WithRole(ctx, role)
}

// mockBilling records issued invoices; GenerateInvoice is configurable per
// test through the fn field.
type mockBilling struct {
	mu    sync.Mutex
	calls []int64
	fn    func(ctx context.Context, userID uuid.UUID, amountCents int64, description string) (uuid.UUID, error)
}

func (m *mockBilling) GenerateInvoice(ctx context.Context, userID uuid.UUID, amountCents int64, description string) (uuid.UUID, error) {
	m.mu.Lock()
	m.calls = append(m.calls, amountCents)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, userID, amountCents, description)
	}
	return uuid.New(), nil
}

func (m *mockBilling) amounts() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.calls))
	copy(out, m.calls)
	return out
}

type mockNotifier struct {
	mu    sync.Mutex
	kinds []string
	fn    func(ctx context.Context, recipient uuid.UUID, kind, title, message string, data map[string]any) error
}

func (m *mockNotifier) Notify(ctx context.Context, recipient uuid.UUID, kind, title, message string, data map[string]any) error {
	m.mu.Lock()
	m.kinds = append(m.kinds, kind)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, recipient, kind, title, message, data)
	}
	return nil
}

func (m *mockNotifier) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.kinds))
	copy(out, m.kinds)
	return out
}

func createLocation(t *testing.T, repo *repository.Repository, name string) *models.Location {
	t.Helper()
	loc := &models.Location{Name: name, Kind: models.LocationPrimary, IsActive: true}
	if err := repo.Locations.Create(context.Background(), loc); err != nil {
		t.Fatalf("create location: %v", err)
	}
	return loc
}

func createInstrumentWithStock(t *testing.T, repo *repository.Repository, name string, locationID uuid.UUID, qty int32, dailyPriceCents int64) *models.Instrument {
	t.Helper()
	in := &models.Instrument{
		Name:               name,
		Category:           "strings",
		DailyPriceCents:    dailyPriceCents,
		AvailabilityStatus: models.AvailabilityAvailable,
		PrimaryLocationID:  &locationID,
	}
	if err := repo.Instruments.Create(context.Background(), in); err != nil {
		t.Fatalf("create instrument: %v", err)
	}
	if qty > 0 {
		if err := repo.Inventories.SetQuantity(context.Background(), in.ID, &locationID, qty); err != nil {
			t.Fatalf("set stock: %v", err)
		}
	}
	return in
}
