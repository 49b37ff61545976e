package sqlite

import (
	"database/sql"
	"fmt"

	"food_rent/internal/storage/sqlstore"
)

// "ON CONFLICT DO NOTHING" leaves 0 affected rows when the key exists.
var dialect = sqlstore.Dialect{
	InsertCity: `
INSERT INTO cities (name, state) VALUES (?, ?)
ON CONFLICT(name) DO NOTHING
`,
	InsertRestaurant: `
INSERT INTO restaurants
  (id, name, city_id, rating, review_count, price_id, category_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`,
	InsertRental: `
INSERT INTO rentals
  (listing_id, city_id, formatted_address, bedrooms, bathrooms, price, property_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(listing_id) DO NOTHING
`,
	InsertStoreID: `
INSERT INTO store_meta (meta_key, meta_value) VALUES ('store_id', ?)
ON CONFLICT(meta_key) DO NOTHING
`,
	InsertDimension: func(table, _ string) string {
		return fmt.Sprintf("INSERT INTO %s (label) VALUES (?) ON CONFLICT(label) DO NOTHING", table)
	},
}

// New returns the shared SQL store speaking the SQLite dialect.
func New(db *sql.DB) *sqlstore.Repo { return sqlstore.New(db, dialect) }
