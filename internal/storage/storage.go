// Package storage picks the configured store backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"food_rent/internal/domain"
	mysqlrepo "food_rent/internal/storage/mysql"
	"food_rent/internal/storage/sqlite"
)

// Repository is everything the commands need from a backend.
type Repository interface {
	domain.Store
	domain.ReportRepository
}

// Open connects to the backend named by driver ("sqlite" or "mysql").
// The returned *sql.DB is owned by the caller.
func Open(ctx context.Context, driver, sqlitePath, mysqlDSN string) (Repository, *sql.DB, error) {
	switch driver {
	case "sqlite", "":
		db, err := sqlite.Open(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.New(db), db, nil
	case "mysql":
		db, err := sql.Open("mysql", mysqlDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		return mysqlrepo.New(db), db, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", domain.ErrConfiguration, driver)
}
