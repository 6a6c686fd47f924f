package repository_test

import (
	"context"
	"testing"

	"rentalhub/internal/migrate"
	"rentalhub/internal/models"
	"rentalhub/internal/repository"
	"rentalhub/internal/schema"
	"rentalhub/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Run(context.Background(), db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupRepository(t *testing.T) *repository.Repository {
	t.Helper()
	db := setupDB(t)
	caps := schema.Detect(db, zap.NewNop())
	return repository.New(db, caps, zap.NewNop())
}

func createLocation(t *testing.T, repo *repository.Repository, name string) *models.Location {
	t.Helper()
	loc := &models.Location{Name: name, Kind: models.LocationPrimary, IsActive: true}
	if err := repo.Locations.Create(context.Background(), loc); err != nil {
		t.Fatalf("create location: %v", err)
	}
	return loc
}

func createInstrument(t *testing.T, repo *repository.Repository, name string, primary *uuid.UUID) *models.Instrument {
	t.Helper()
	in := &models.Instrument{
		Name:               name,
		Category:           "strings",
		DailyPriceCents:    1500,
		AvailabilityStatus: models.AvailabilityAvailable,
		PrimaryLocationID:  primary,
	}
	if err := repo.Instruments.Create(context.Background(), in); err != nil {
		t.Fatalf("create instrument: %v", err)
	}
	return in
}
