// Package sqlite provides the SQLite-backed implementations of the core
// repository ports.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa: order placement writes while the read views may be serving
// concurrent requests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, which keeps the Docker build on Alpine
	// simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Idempotent due to IF NOT EXISTS.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    email          TEXT NOT NULL UNIQUE,
    phone          TEXT NOT NULL UNIQUE,
    password_hash  TEXT NOT NULL,
    role           TEXT NOT NULL,

    -- Farmer profile, empty for consumers and admins.
    owner          TEXT NOT NULL DEFAULT '',
    address        TEXT NOT NULL DEFAULT '',
    latitude       REAL NOT NULL DEFAULT 0,
    longitude      REAL NOT NULL DEFAULT 0,
    badges         TEXT NOT NULL DEFAULT '[]',

    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    -- Decimal stored as TEXT so no precision is lost round-tripping.
    price       TEXT NOT NULL,
    farmer_id   TEXT NOT NULL REFERENCES users(id),
    quantity    INTEGER NOT NULL DEFAULT 0,
    image_url   TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_farmer ON products(farmer_id);

CREATE TABLE IF NOT EXISTS cart_items (
    consumer_id TEXT NOT NULL REFERENCES users(id),
    product_id  TEXT NOT NULL REFERENCES products(id),
    quantity    INTEGER NOT NULL,
    PRIMARY KEY (consumer_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders (
    id           TEXT PRIMARY KEY,
    consumer_id  TEXT NOT NULL REFERENCES users(id),
    total_price  TEXT NOT NULL,
    status       TEXT NOT NULL,
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_consumer ON orders(consumer_id);

CREATE TABLE IF NOT EXISTS order_items (
    order_id    TEXT NOT NULL REFERENCES orders(id),
    -- Line items keep their submitted order.
    position    INTEGER NOT NULL,
    product_id  TEXT NOT NULL,
    -- Denormalized owner of the product at order time; never refreshed.
    farmer_id   TEXT NOT NULL,
    quantity    INTEGER NOT NULL,
    PRIMARY KEY (order_id, position)
);
CREATE INDEX IF NOT EXISTS idx_order_items_farmer ON order_items(farmer_id);

-- Append-only status history: one row per lifecycle event.
CREATE TABLE IF NOT EXISTS order_status_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL REFERENCES orders(id),
    status      TEXT NOT NULL,
    occurred_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_status_events_order ON order_status_events(order_id, id);
`

// Store is the SQLite implementation of the repository ports. One Store
// serves all of them; see the compile-time assertions in each file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. WAL mode is enabled for better concurrent read/write
// performance. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		// The pure-Go driver uses _pragma query parameters to configure
		// connection state. busy_timeout waits for locks instead of failing
		// immediately.
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)
	}

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ConnectionState returns "connected" or "disconnected" for the diagnostic
// endpoint.
func (s *Store) ConnectionState(ctx context.Context) string {
	if err := s.Ping(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
