package app_test

import (
	"context"
	"errors"
	"testing"

	"food_rent/internal/app"
	"food_rent/internal/domain"
)

func TestNormalizeRestaurant(t *testing.T) {
	repo, _ := setupStore(t)
	ctx := context.Background()
	city := mustCity(t, repo, "Chicago", "IL")
	n := app.NewNormalizer(app.NewRegistry(repo, nil, 0))

	tests := []struct {
		name     string
		raw      domain.RawRestaurant
		skip     bool
		category string
		price    string
	}{
		{
			name: "full record",
			raw: domain.RawRestaurant{
				ID: ptr("r1"), Name: ptr("Cafe X"), Rating: ptr(4.5), ReviewCount: ptr(int64(12)), Price: ptr("$$"),
				Location:   &domain.RawLocation{City: ptr("Chicago"), ZipCode: ptr("60601")},
				Categories: []domain.RawCategory{{Alias: ptr("cafes"), Title: ptr("Cafes")}, {Title: ptr("Bakery")}},
			},
			category: "Cafes",
			price:    "$$",
		},
		{
			name: "alias when title missing",
			raw: domain.RawRestaurant{
				ID: ptr("r2"), Location: &domain.RawLocation{City: ptr("chicago")},
				Categories: []domain.RawCategory{{Alias: ptr("tacos")}},
			},
			category: "tacos",
		},
		{
			name: "case and padding fold",
			raw:  domain.RawRestaurant{ID: ptr("r3"), Location: &domain.RawLocation{City: ptr("CHICAGO ")}},
		},
		{name: "missing id", raw: domain.RawRestaurant{Location: &domain.RawLocation{City: ptr("Chicago")}}, skip: true},
		{name: "blank id", raw: domain.RawRestaurant{ID: ptr("  "), Location: &domain.RawLocation{City: ptr("Chicago")}}, skip: true},
		{name: "other city", raw: restaurant("r4", "Cicero"), skip: true},
		{name: "no location", raw: domain.RawRestaurant{ID: ptr("r5")}, skip: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.NormalizeRestaurant(ctx, tc.raw, city)
			if tc.skip {
				if !errors.Is(err, domain.ErrMalformedRecord) {
					t.Fatalf("want skip, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if got.Row.CityID != city.ID || got.Row.ID != *tc.raw.ID {
				t.Fatalf("row: %+v", got.Row)
			}
			checkLabel(t, repo, domain.DimensionCategory, tc.category, got.Row.CategoryID)
			checkLabel(t, repo, domain.DimensionPrice, tc.price, got.Row.PriceID)
		})
	}
}

func TestNormalizeRestaurant_Defaults(t *testing.T) {
	repo, _ := setupStore(t)
	city := mustCity(t, repo, "Chicago", "IL")
	n := app.NewNormalizer(app.NewRegistry(repo, nil, 0))

	got, err := n.NormalizeRestaurant(context.Background(), restaurant("r1", "Chicago"), city)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Row.Rating != 0 || got.Row.ReviewCount != 0 || got.Row.PriceID != nil || got.Row.CategoryID != nil || got.Zip != "" {
		t.Fatalf("defaults: %+v zip=%q", got.Row, got.Zip)
	}
}

func TestNormalizeRental(t *testing.T) {
	repo, _ := setupStore(t)
	ctx := context.Background()
	city := mustCity(t, repo, "Boston", "MA")
	n := app.NewNormalizer(app.NewRegistry(repo, nil, 0))

	full := domain.RawRental{
		ID: ptr("l1"), City: ptr("Boston"), ZipCode: ptr("02110"), FormattedAddress: ptr(" 1 Main St "),
		Bedrooms: ptr(2.0), Bathrooms: ptr(1.5), Price: ptr(3100.0), PropertyType: ptr("Condo"),
	}
	got, err := n.NormalizeRental(ctx, full, city)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	r := got.Row
	if r.ListingID != "l1" || *r.FormattedAddress != "1 Main St" || *r.Bedrooms != 2 || *r.Bathrooms != 1.5 || *r.Price != 3100 || got.Zip != "02110" {
		t.Fatalf("row: %+v zip=%q", r, got.Zip)
	}
	checkLabel(t, repo, domain.DimensionProperty, "Condo", r.PropertyID)

	bare, err := n.NormalizeRental(ctx, domain.RawRental{ID: ptr("l2"), City: ptr("boston"), FormattedAddress: ptr("")}, city)
	if err != nil {
		t.Fatalf("normalize bare: %v", err)
	}
	if b := bare.Row; b.FormattedAddress != nil || b.Bedrooms != nil || b.Bathrooms != nil || b.Price != nil || b.PropertyID != nil {
		t.Fatalf("absent fields must stay nil: %+v", b)
	}

	if _, err := n.NormalizeRental(ctx, rental("l3", "Cambridge"), city); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("other city: %v", err)
	}
	if _, err := n.NormalizeRental(ctx, domain.RawRental{City: ptr("Boston")}, city); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("missing id: %v", err)
	}
}

func checkLabel(t *testing.T, s domain.Store, kind domain.DimensionKind, label string, id *int64) {
	t.Helper()
	if label == "" {
		if id != nil {
			t.Fatalf("%s: want no link, got %d", kind, *id)
		}
		return
	}
	want, err := s.LookupDimension(context.Background(), kind, label)
	if err != nil || id == nil || *id != want {
		t.Fatalf("%s %q: got %v want %d (%v)", kind, label, id, want, err)
	}
}
