// Package database opens the backing store and owns schema creation and
// reference-data seeding.  Two drivers are supported: MySQL for
// deployments and SQLite for single-node setups and the test suite.  All
// SQL elsewhere in the repository sticks to ? placeholders and
// string-encoded UTC timestamps so it runs unchanged on both.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Options selects the driver and carries its connection parameters.
type Options struct {
	Driver string // "mysql" or "sqlite3"

	// MySQL parameters.
	User string
	Pass string
	Host string
	Port string
	Name string

	// SQLite parameter.
	Path string // database file path, or ":memory:"
}

// Open connects using the configured driver and verifies the connection.
func Open(opts Options) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch opts.Driver {
	case "mysql":
		auth := opts.User
		if opts.Pass != "" {
			auth = fmt.Sprintf("%s:%s", opts.User, opts.Pass)
		}
		// loc=UTC keeps times consistent; timestamps are stored as strings
		dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&loc=UTC",
			auth, opts.Host, opts.Port, opts.Name)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	case "sqlite3":
		// _fk enforces foreign keys; busy_timeout rides out writer contention
		dsn := fmt.Sprintf("file:%s?_fk=1&_busy_timeout=5000", opts.Path)
		db, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		// SQLite allows one writer at a time; a single pooled connection
		// avoids SQLITE_BUSY under concurrent admissions.
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", opts.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
