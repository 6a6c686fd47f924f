package schema_test

import (
	"context"
	"testing"

	"rentalhub/internal/migrate"
	"rentalhub/internal/schema"
	"rentalhub/internal/testutil"

	"go.uber.org/zap"
)

func TestDetect_FullSchema(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Run(context.Background(), db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	caps := schema.Detect(db, zap.NewNop())
	if !caps.HasAggregateInventoryTable {
		t.Fatal("expected aggregate inventory table detected")
	}
	if caps.HasLegacyQuantityColumn {
		t.Fatal("migrated schema has no legacy quantity column")
	}
	if !caps.HasPrimaryLocationColumn {
		t.Fatal("expected primary location column detected")
	}
}

func TestDetect_EmptyDatabase(t *testing.T) {
	db := testutil.SetupTestPostgres(t)

	caps := schema.Detect(db, zap.NewNop())
	if caps.HasAggregateInventoryTable || caps.HasLegacyQuantityColumn || caps.HasPrimaryLocationColumn {
		t.Fatalf("expected no capabilities on empty database, got %+v", caps)
	}
}

func TestDetect_LegacyQuantityColumn(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Run(context.Background(), db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(`ALTER TABLE instruments ADD COLUMN quantity integer`).Error; err != nil {
		t.Fatalf("add legacy column: %v", err)
	}

	caps := schema.Detect(db, zap.NewNop())
	if !caps.HasLegacyQuantityColumn {
		t.Fatal("expected legacy quantity column detected")
	}
	// Both representations present: the aggregate table still wins at
	// backend selection, detection just reports facts.
	if !caps.HasAggregateInventoryTable {
		t.Fatal("expected aggregate table still detected")
	}
}

func TestMinimal(t *testing.T) {
	caps := schema.Minimal()
	if caps.HasAggregateInventoryTable || caps.HasLegacyQuantityColumn || caps.HasPrimaryLocationColumn {
		t.Fatalf("Minimal must report nothing, got %+v", caps)
	}
}
