package app_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"food_rent/internal/app"
	"food_rent/internal/domain"
	"food_rent/internal/storage/sqlite"
	"food_rent/internal/storage/sqlstore"
)

func ptr[T any](v T) *T { return &v }

// ---- fakes ----

// fakeYelp serves a fixed result list, paged by offset. With static set it
// ignores the offset and always returns the same page.
type fakeYelp struct {
	mu      sync.Mutex
	all     []domain.RawRestaurant
	static  bool
	err     error
	queries []domain.RestaurantQuery
}

func (f *fakeYelp) SearchRestaurants(ctx context.Context, q domain.RestaurantQuery) ([]domain.RawRestaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if f.static {
		return f.all, nil
	}
	return page(f.all, q.Offset, q.Limit), nil
}

type fakeRentCast struct {
	mu      sync.Mutex
	all     []domain.RawRental
	err     error
	queries []domain.RentalQuery
}

func (f *fakeRentCast) ListRentals(ctx context.Context, q domain.RentalQuery) ([]domain.RawRental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return page(f.all, q.Offset, q.Limit), nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// countingStore records how often dimension rows are created.
type countingStore struct {
	domain.Store
	mu      sync.Mutex
	lookups int
	ensures int
}

func (c *countingStore) LookupDimension(ctx context.Context, kind domain.DimensionKind, label string) (int64, error) {
	c.mu.Lock()
	c.lookups++
	c.mu.Unlock()
	return c.Store.LookupDimension(ctx, kind, label)
}

func (c *countingStore) EnsureDimension(ctx context.Context, kind domain.DimensionKind, label string) (int64, error) {
	c.mu.Lock()
	c.ensures++
	c.mu.Unlock()
	return c.Store.EnsureDimension(ctx, kind, label)
}

// ---- helpers ----

func setupStore(t *testing.T) (*sqlstore.Repo, *sql.DB) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.New(db), db
}

func countTable(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func windows(restaurants, rentals int) map[domain.Dataset]app.WindowConfig {
	return map[domain.Dataset]app.WindowConfig{
		domain.DatasetRestaurants: {Size: restaurants},
		domain.DatasetRentals:     {Size: rentals},
	}
}

func restaurant(id, city string) domain.RawRestaurant {
	return domain.RawRestaurant{
		ID:       ptr(id),
		Name:     ptr("Place " + id),
		Location: &domain.RawLocation{City: ptr(city)},
	}
}

func rental(id, city string) domain.RawRental {
	return domain.RawRental{ID: ptr(id), City: ptr(city), Price: ptr(2000.0)}
}

func mustCity(t *testing.T, s domain.Store, name, state string) domain.City {
	t.Helper()
	c, err := s.EnsureCity(context.Background(), domain.CitySpec{Name: name, State: state})
	if err != nil {
		t.Fatalf("EnsureCity: %v", err)
	}
	return c
}
