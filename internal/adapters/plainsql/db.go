// Package plainsql implements the spatial backend on a plain relational
// table: latitude and longitude live in two numeric columns, no spatial
// types or indexes, and all distance math happens in the application.
package plainsql

import (
	"database/sql"
	"fmt"

	// database/sql driver for stores without PostGIS.
	_ "github.com/lib/pq"
)

// Open connects via database/sql and verifies the connection.
func Open(dsn string, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}
