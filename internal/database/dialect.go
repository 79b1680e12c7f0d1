package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/config"
)

// Dialect captures the differences between the supported SQL engines
type Dialect struct {
	Name       string
	DriverName string
	// Schema holds the idempotent DDL statements run at startup
	Schema []string
	// IDParam is the placeholder compared against the id column
	IDParam string
	// numbered reports whether placeholders are $1, $2, ... instead of ?
	numbered bool
}

var (
	Postgres = Dialect{
		Name:       config.DriverPostgres,
		DriverName: "postgres",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS products (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR,
				description VARCHAR,
				price DOUBLE PRECISION,
				category VARCHAR,
				image_url VARCHAR
			)`,
			`CREATE INDEX IF NOT EXISTS ix_products_id ON products (id)`,
			`CREATE INDEX IF NOT EXISTS ix_products_name ON products (name)`,
		},
		// Tables from earlier deployments may have an int4 id; an untyped
		// parameter would then be int4 too and reject ids above MaxInt32.
		IDParam:  "?::bigint",
		numbered: true,
	}

	SQLite = Dialect{
		Name:       config.DriverSQLite,
		DriverName: "sqlite",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS products (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT,
				description TEXT,
				price REAL,
				category TEXT,
				image_url TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS ix_products_name ON products (name)`,
		},
		IDParam: "?",
	}
)

// DialectFor returns the dialect for a DB_DRIVER value
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverPostgres:
		return Postgres, nil
	case config.DriverSQLite:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// Rebind rewrites ? placeholders into the dialect's bind variable style.
// Queries must not contain a literal ? outside of placeholders.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
