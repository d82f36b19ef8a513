// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. For a fleet of a
// couple dozen cars and one admin, it is the whole persistence story.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// The pattern with database/sql is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The underscore import is a "side-effect only" import. The sqlite package's
	// init() function registers itself with database/sql as a driver named "sqlite".
	// After this import, sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB connection and owns the schema. The per-entity repos
// (CarRepo, UserRepo, ...) are constructed over one DB and share its
// connection — one file, one schema, many views into it.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/cars.db"  → file-based database (persistent)
//   - ":memory:"      → in-memory database (great for tests, lost on close)
//
// sql.Open() does NOT actually open a connection — it just creates a pool
// manager. We call Ping() to force an immediate connection so a bad path or
// permissions problem surfaces here, not on the first request.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single connection serialises writes, which sidesteps SQLITE_BUSY
	// errors under concurrent requests. It's also what makes ":memory:"
	// usable at all — every new pooled connection would otherwise get its
	// own fresh, empty in-memory database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) mode:
	// Default SQLite locks the entire database during writes. WAL mode allows
	// concurrent reads WHILE a write is happening — important for a web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (for backwards compatibility).
	// Bookings and rentals reference users and cars, so we want them enforced.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// running it on every startup is safe. For this schema size a migration
// tracker would be overkill.
func (db *DB) migrate() error {
	// cars is the one table the public site reads. license_plate carries the
	// UNIQUE constraint the whole inventory hangs on; available is stored as
	// INTEGER 0/1 because SQLite has no boolean type.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS cars (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			make          TEXT NOT NULL,
			model         TEXT NOT NULL,
			year          INTEGER NOT NULL,
			weekly_rate   REAL NOT NULL,
			available     INTEGER NOT NULL DEFAULT 1,
			license_plate TEXT NOT NULL UNIQUE,
			image_url     TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_cars_available ON cars(available);
	`)
	if err != nil {
		return fmt.Errorf("creating cars table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			reference  TEXT NOT NULL UNIQUE,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			car_id     INTEGER NOT NULL REFERENCES cars(id),
			start_date TEXT NOT NULL,
			end_date   TEXT NOT NULL,
			total_cost REAL NOT NULL DEFAULT 0,
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status);
	`)
	if err != nil {
		return fmt.Errorf("creating bookings table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS rentals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			car_id     INTEGER NOT NULL REFERENCES cars(id),
			start_date TEXT NOT NULL,
			end_date   TEXT NOT NULL,
			total_cost REAL NOT NULL DEFAULT 0,
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rentals_status ON rentals(status);
	`)
	if err != nil {
		return fmt.Errorf("creating rentals table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS enquiries (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			name             TEXT NOT NULL,
			phone            TEXT NOT NULL,
			email            TEXT NOT NULL DEFAULT '',
			rental_duration  TEXT NOT NULL DEFAULT '',
			vehicle_interest TEXT NOT NULL DEFAULT '',
			message          TEXT NOT NULL DEFAULT '',
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating enquiries table: %w", err)
	}

	return nil
}
