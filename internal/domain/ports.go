package domain

import "context"

// Store is the write side of the persistent store. Implementations must
// back every insert with the table's primary key or unique constraint;
// application-level lookups are only a fast path.
type Store interface {
	// StoreID identifies this database. It is created on first use and
	// changes when the database is recreated.
	StoreID(ctx context.Context) (string, error)

	// EnsureCity inserts the city if its name is new and returns the stored row.
	EnsureCity(ctx context.Context, c CitySpec) (City, error)
	// SetCityZip sets zip only while it is still NULL. It reports whether a row changed.
	SetCityZip(ctx context.Context, cityID int64, zip string) (bool, error)

	// LookupDimension returns the id of label, or ErrNotFound.
	LookupDimension(ctx context.Context, kind DimensionKind, label string) (int64, error)
	// EnsureDimension inserts label if absent, else fetches it, and returns
	// its id. Losing an insert race to another writer is not an error.
	EnsureDimension(ctx context.Context, kind DimensionKind, label string) (int64, error)

	// CountRows counts the fact rows stored for one (city, dataset) pair.
	CountRows(ctx context.Context, cityID int64, ds Dataset) (int, error)

	// InsertRestaurant and InsertRental never overwrite: an existing
	// primary key yields Ignored.
	InsertRestaurant(ctx context.Context, r Restaurant) (WriteOutcome, error)
	InsertRental(ctx context.Context, r Rental) (WriteOutcome, error)
}

// ReportRepository is the read-only side used by export and reporting.
type ReportRepository interface {
	ListCities(ctx context.Context) ([]City, error)
	CitySummaries(ctx context.Context) ([]CitySummary, error)
	AverageRent(ctx context.Context) ([]CityRent, error)
	TopCategories(ctx context.Context, cityID int64, limit int) ([]LabelCount, error)
	PriceDistribution(ctx context.Context) ([]LabelCount, error)
}

type RestaurantSource interface {
	SearchRestaurants(ctx context.Context, q RestaurantQuery) ([]RawRestaurant, error)
}

type RentalSource interface {
	ListRentals(ctx context.Context, q RentalQuery) ([]RawRental, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models

type CitySummary struct {
	CityID          int64    `json:"city_id"`
	Name            string   `json:"name"`
	State           string   `json:"state"`
	Zip             *string  `json:"zip,omitempty"`
	RestaurantCount int64    `json:"restaurant_count"`
	AvgRating       *float64 `json:"avg_rating,omitempty"`
	RentalCount     int64    `json:"rental_count"`
	AvgRent         *float64 `json:"avg_rent,omitempty"`
}

type CityRent struct {
	CityID      int64    `json:"city_id"`
	Name        string   `json:"city_name"`
	AverageRent *float64 `json:"average_rent"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}
