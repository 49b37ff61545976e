// Package sqlstore implements the store contract over database/sql. The
// backends differ only in how they spell insert-if-absent; everything else
// is shared.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hashicorp/go-uuid"

	"food_rent/internal/domain"
)

// Dialect holds the statements a backend must provide. Every insert must be
// a no-op reporting 0 affected rows when the key already exists.
type Dialect struct {
	InsertCity       string
	InsertRestaurant string
	InsertRental     string
	InsertStoreID    string
	// InsertDimension returns the insert-if-absent statement for a
	// dimension table keyed on UNIQUE(label).
	InsertDimension func(table, idCol string) string
}

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// dimensionTable maps a kind to its table and surrogate key column.
func dimensionTable(kind domain.DimensionKind) (table, idCol string, err error) {
	switch kind {
	case domain.DimensionPrice:
		return "prices", "price_id", nil
	case domain.DimensionCategory:
		return "categories", "category_id", nil
	case domain.DimensionProperty:
		return "property_types", "property_id", nil
	}
	return "", "", fmt.Errorf("unknown dimension kind %d", int(kind))
}

type Repo struct {
	db *sql.DB
	d  Dialect
}

func New(db *sql.DB, d Dialect) *Repo { return &Repo{db: db, d: d} }

// StoreID returns the identity generated when this database was first used.
// A recreated database gets a new one.
func (r *Repo) StoreID(ctx context.Context) (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}
	if _, err := r.db.ExecContext(ctx, r.d.InsertStoreID, id); err != nil {
		return "", fmt.Errorf("insert store id: %w", err)
	}
	var got string
	if err := r.db.QueryRowContext(ctx, getStoreIDSQL).Scan(&got); err != nil {
		return "", fmt.Errorf("read store id: %w", err)
	}
	return got, nil
}

func (r *Repo) EnsureCity(ctx context.Context, c domain.CitySpec) (domain.City, error) {
	if _, err := r.db.ExecContext(ctx, r.d.InsertCity, c.Name, c.State); err != nil {
		return domain.City{}, fmt.Errorf("insert city %q: %w", c.Name, err)
	}
	return scanCity(r.db.QueryRowContext(ctx, getCityByNameSQL, c.Name))
}

func (r *Repo) SetCityZip(ctx context.Context, cityID int64, zip string) (bool, error) {
	res, err := r.db.ExecContext(ctx, setCityZipSQL, zip, cityID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repo) LookupDimension(ctx context.Context, kind domain.DimensionKind, label string) (int64, error) {
	table, idCol, err := dimensionTable(kind)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE label = ?", idCol, table), label).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return id, err
}

func (r *Repo) EnsureDimension(ctx context.Context, kind domain.DimensionKind, label string) (int64, error) {
	table, idCol, err := dimensionTable(kind)
	if err != nil {
		return 0, err
	}
	// UNIQUE(label) decides the race; the loser's insert is a no-op.
	if _, err := r.db.ExecContext(ctx, r.d.InsertDimension(table, idCol), label); err != nil {
		return 0, fmt.Errorf("insert %s %q: %w", kind, label, err)
	}
	return r.LookupDimension(ctx, kind, label)
}

func (r *Repo) CountRows(ctx context.Context, cityID int64, ds domain.Dataset) (int, error) {
	var q string
	switch ds {
	case domain.DatasetRestaurants:
		q = countRestaurantsSQL
	case domain.DatasetRentals:
		q = countRentalsSQL
	default:
		return 0, fmt.Errorf("unknown dataset %q", ds)
	}
	var n int
	err := r.db.QueryRowContext(ctx, q, cityID).Scan(&n)
	return n, err
}

func (r *Repo) InsertRestaurant(ctx context.Context, x domain.Restaurant) (domain.WriteOutcome, error) {
	res, err := r.db.ExecContext(ctx, r.d.InsertRestaurant,
		x.ID,
		x.Name,
		x.CityID,
		x.Rating,
		x.ReviewCount,
		valInt64(x.PriceID),
		valInt64(x.CategoryID),
	)
	return outcome(res, err)
}

func (r *Repo) InsertRental(ctx context.Context, x domain.Rental) (domain.WriteOutcome, error) {
	res, err := r.db.ExecContext(ctx, r.d.InsertRental,
		x.ListingID,
		x.CityID,
		valStr(x.FormattedAddress),
		valInt64(x.Bedrooms),
		valF64(x.Bathrooms),
		valF64(x.Price),
		valInt64(x.PropertyID),
	)
	return outcome(res, err)
}

func outcome(res sql.Result, err error) (domain.WriteOutcome, error) {
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return domain.Ignored, nil
	}
	return domain.Inserted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCity(row rowScanner) (domain.City, error) {
	var c domain.City
	var zip sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.State, &zip); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.City{}, domain.ErrNotFound
		}
		return domain.City{}, err
	}
	if zip.Valid {
		z := zip.String
		c.Zip = &z
	}
	return c, nil
}
