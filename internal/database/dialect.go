package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect abstracts over the supported database engines. Queries are
// written with ? placeholders; dialects that number their placeholders
// rewrite them on the way out.
type Dialect interface {
	// DriverName is the name registered with database/sql.
	DriverName() string

	// DSN builds the data source name from the configured path or URL.
	DSN(path, url string) string

	// Rewrite converts ? placeholders where the engine needs it.
	Rewrite(query string) string

	// SupportsLastInsertID reports whether INSERT results carry the new
	// row ID; PostgreSQL needs a RETURNING clause instead.
	SupportsLastInsertID() bool

	// Configure applies engine-specific connection settings.
	Configure(db *sql.DB) error

	// MigrationsSubdir names the per-engine migrations directory.
	MigrationsSubdir() string

	// MigrationsTable is the DDL for the migration tracking table.
	MigrationsTable() string
}

var questionMark = regexp.MustCompile(`\?`)

// numberPlaceholders converts ? placeholders to $1, $2, ...
func numberPlaceholders(query string) string {
	n := 0
	return questionMark.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
}

// SQLiteDialect is the default engine, a file on disk.
type SQLiteDialect struct{}

func (SQLiteDialect) DriverName() string          { return "sqlite3" }
func (SQLiteDialect) DSN(path, _ string) string   { return path }
func (SQLiteDialect) Rewrite(query string) string { return query }
func (SQLiteDialect) SupportsLastInsertID() bool  { return true }
func (SQLiteDialect) MigrationsSubdir() string    { return "sqlite" }

func (SQLiteDialect) Configure(db *sql.DB) error {
	configurePool(db)
	// WAL for concurrent readers, and SQLite keeps foreign keys off
	// unless asked.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	_, err := db.Exec("PRAGMA foreign_keys=ON;")
	return err
}

func (SQLiteDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT UNIQUE NOT NULL,
		executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
}

// PostgresDialect connects via a URL DSN.
type PostgresDialect struct{}

func (PostgresDialect) DriverName() string          { return "postgres" }
func (PostgresDialect) DSN(_, url string) string    { return url }
func (PostgresDialect) Rewrite(query string) string { return numberPlaceholders(query) }
func (PostgresDialect) SupportsLastInsertID() bool  { return false }
func (PostgresDialect) MigrationsSubdir() string    { return "postgres" }

func (PostgresDialect) Configure(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (PostgresDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		id BIGSERIAL PRIMARY KEY,
		filename TEXT UNIQUE NOT NULL,
		executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);`
}

// MySQLDialect connects via a go-sql-driver DSN.
type MySQLDialect struct{}

func (MySQLDialect) DriverName() string          { return "mysql" }
func (MySQLDialect) DSN(_, url string) string    { return url }
func (MySQLDialect) Rewrite(query string) string { return query }
func (MySQLDialect) SupportsLastInsertID() bool  { return true }
func (MySQLDialect) MigrationsSubdir() string    { return "mysql" }

func (MySQLDialect) Configure(db *sql.DB) error {
	configurePool(db)
	_, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;")
	return err
}

func (MySQLDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		filename VARCHAR(255) UNIQUE NOT NULL,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
}
