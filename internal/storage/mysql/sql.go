package mysql

import (
	"database/sql"
	"fmt"

	"food_rent/internal/storage/sqlstore"
)

// "ON DUPLICATE KEY UPDATE pk = pk" is an insert-if-absent: the driver
// reports 0 affected rows when the key already existed.
var dialect = sqlstore.Dialect{
	InsertCity: `
INSERT INTO cities (name, state) VALUES (?, ?)
ON DUPLICATE KEY UPDATE city_id = city_id
`,
	InsertRestaurant: `
INSERT INTO restaurants
  (id, name, city_id, rating, review_count, price_id, category_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE id = id
`,
	InsertRental: `
INSERT INTO rentals
  (listing_id, city_id, formatted_address, bedrooms, bathrooms, price, property_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE listing_id = listing_id
`,
	InsertStoreID: `
INSERT INTO store_meta (meta_key, meta_value) VALUES ('store_id', ?)
ON DUPLICATE KEY UPDATE meta_key = meta_key
`,
	// uq_<table>_label decides the race
	InsertDimension: func(table, idCol string) string {
		return fmt.Sprintf("INSERT INTO %s (label) VALUES (?) ON DUPLICATE KEY UPDATE %s = %s", table, idCol, idCol)
	},
}

// New returns the shared SQL store speaking the MySQL dialect. It expects
// the schema from migrations/mysql to be applied.
func New(db *sql.DB) *sqlstore.Repo { return sqlstore.New(db, dialect) }
