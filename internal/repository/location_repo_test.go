package repository_test

import (
	"context"
	"errors"
	"testing"

	"rentalhub/internal/repository"
)

func TestLocationRepo_ResolveExplicitWins(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	primary := createLocation(t, repo, "Primary Hall")
	other := createLocation(t, repo, "Other Hall")
	inst := createInstrument(t, repo, "Harp", &primary.ID)

	got, err := repo.Locations.Resolve(ctx, inst.ID, &other.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != other.ID {
		t.Fatalf("explicit location must win, got %s", got)
	}
}

func TestLocationRepo_ResolvePrimaryLocation(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	createLocation(t, repo, "First Created")
	primary := createLocation(t, repo, "Configured Primary")
	inst := createInstrument(t, repo, "Piano", &primary.ID)

	got, err := repo.Locations.Resolve(ctx, inst.ID, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != primary.ID {
		t.Fatalf("expected configured primary %s, got %s", primary.ID, got)
	}
}

func TestLocationRepo_ResolveFallbackOldestActive(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	oldest := createLocation(t, repo, "Oldest")
	createLocation(t, repo, "Newer")
	inst := createInstrument(t, repo, "Clarinet", nil)

	got, err := repo.Locations.Resolve(ctx, inst.ID, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != oldest.ID {
		t.Fatalf("expected oldest active location %s, got %s", oldest.ID, got)
	}
}

func TestLocationRepo_ResolveSkipsInactive(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	inactive := createLocation(t, repo, "Closed Hall")
	if err := repo.Locations.UpdateFields(ctx, inactive.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	active := createLocation(t, repo, "Open Hall")
	inst := createInstrument(t, repo, "Tuba", nil)

	got, err := repo.Locations.Resolve(ctx, inst.ID, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != active.ID {
		t.Fatalf("expected active location, got %s", got)
	}
}

func TestLocationRepo_ResolveNoActiveLocation(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	inst := createInstrument(t, repo, "Orphan Instrument", nil)

	_, err := repo.Locations.Resolve(ctx, inst.ID, nil)
	if !errors.Is(err, repository.ErrNoActiveLocation) {
		t.Fatalf("expected ErrNoActiveLocation, got %v", err)
	}
}
