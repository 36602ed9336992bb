package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"time"
)

// Dialect hides the differences between the supported progress databases.
// Queries are written with ? placeholders and rewritten per dialect.
type Dialect interface {
	DriverName() string
	DSN(config DialectConfig) string
	RewriteQuery(query string) string
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the directory under migrations/ for this dialect
	MigrationsSubdir() string
	CreateMigrationsTableQuery() string

	// UpsertKV returns the statement that inserts or replaces a kv_store
	// row; arguments are key then value.
	UpsertKV() string
}

// DialectConfig locates the database: a file Path for SQLite, a URL otherwise
type DialectConfig struct {
	Path string
	URL  string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered numbers ? placeholders as $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// configureServerPool sizes the pool for networked databases. Each request
// touches at most one kv row, so a small pool is enough.
func configureServerPool(db *sql.DB) {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
}
