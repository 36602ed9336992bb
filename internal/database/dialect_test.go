package database

import (
	"strings"
	"testing"

	"dictee/internal/config"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		dialect    Dialect
		driver     string
		subdir     string
		upsertHint string
	}{
		{NewSQLiteDialect(), "sqlite3", "sqlite", "ON CONFLICT(store_key)"},
		{NewPostgresDialect(), "postgres", "postgres", "ON CONFLICT (store_key)"},
		{NewMySQLDialect(), "mysql", "mysql", "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.subdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.subdir)
			}
			if got := tt.dialect.UpsertKV(); !strings.Contains(got, tt.upsertHint) {
				t.Errorf("UpsertKV() = %q, want it to contain %q", got, tt.upsertHint)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT store_value FROM kv_store WHERE store_key = ?",
			expected: "SELECT store_value FROM kv_store WHERE store_key = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "DELETE FROM kv_store WHERE store_key = ?",
			expected: "DELETE FROM kv_store WHERE store_key = $1",
		},
		{
			name:     "PostgreSQL upsert",
			dialect:  NewPostgresDialect(),
			query:    NewPostgresDialect().UpsertKV(),
			expected: strings.Replace(strings.Replace(NewPostgresDialect().UpsertKV(), "?", "$1", 1), "?", "$2", 1),
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "SELECT store_value FROM kv_store WHERE store_key = ?",
			expected: "SELECT store_value FROM kv_store WHERE store_key = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestInitializeWithConfigRejectsUnknownType(t *testing.T) {
	_, err := InitializeWithConfig(&config.Config{DatabaseType: "oracle"})
	if err == nil || !strings.Contains(err.Error(), "unsupported database type") {
		t.Errorf("err = %v", err)
	}
}
