package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"food_rent/internal/domain"
	"food_rent/internal/storage"
)

func TestOpen_SQLiteFileReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "food_rent.db")

	repo, db, err := storage.Open(ctx, "sqlite", path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	city, err := repo.EnsureCity(ctx, domain.CitySpec{Name: "Detroit", State: "MI"})
	if err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	// schema creation is idempotent and data survives a reopen
	repo, db, err = storage.Open(ctx, "sqlite", path, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	cities, err := repo.ListCities(ctx)
	if err != nil || len(cities) != 1 || cities[0].ID != city.ID {
		t.Fatalf("cities after reopen: %+v %v", cities, err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, _, err := storage.Open(context.Background(), "oracle", "", ""); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
