package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/config"
)

// DB is the process-wide connection pool together with the SQL dialect
// the repository must speak to it.
type DB struct {
	Conn    *sql.DB
	Dialect Dialect

	schemaMu    sync.Mutex
	schemaReady atomic.Bool
}

// Open creates the connection pool for cfg.
// No connection is made here; use Probe to check connectivity.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(dialect.DriverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	return &DB{Conn: conn, Dialect: dialect}, nil
}

// Probe runs a trivial query to verify the database is reachable
func (db *DB) Probe(ctx context.Context) error {
	var one int
	if err := db.Conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to probe database: %w", err)
	}
	return nil
}

// EnsureSchema creates the products table and its indexes when absent.
// An existing table is left untouched.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range db.Dialect.Schema {
		if _, err := db.Conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	db.schemaReady.Store(true)
	return nil
}

// Prepare runs EnsureSchema until it has succeeded once on this pool.
// Callers use it before each query so a database that was unreachable at
// startup gets its table as soon as it comes back.
func (db *DB) Prepare(ctx context.Context) error {
	if db.schemaReady.Load() {
		return nil
	}

	db.schemaMu.Lock()
	defer db.schemaMu.Unlock()

	if db.schemaReady.Load() {
		return nil
	}
	return db.EnsureSchema(ctx)
}

// Close closes the pool
func (db *DB) Close() error {
	return db.Conn.Close()
}
