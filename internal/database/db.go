package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// DB wraps the database connection with dialect-aware query helpers.
// Repositories write ? placeholders and let the wrapper rewrite them.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the configured engine: "sqlite" (default, file
// path), "postgres" or "mysql" (URL DSN).
func Open(engine, path, url string) (*DB, error) {
	var dialect Dialect
	switch strings.ToLower(engine) {
	case "", "sqlite", "sqlite3":
		dialect = SQLiteDialect{}
	case "postgres", "postgresql":
		dialect = PostgresDialect{}
	case "mysql":
		dialect = MySQLDialect{}
	default:
		return nil, fmt.Errorf("unsupported database engine: %s", engine)
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(path, url))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := dialect.Configure(db); err != nil {
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Query executes a query with automatic placeholder rewriting.
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(db.Dialect.Rewrite(query), args...)
}

// QueryRow executes a single-row query with automatic placeholder
// rewriting.
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(db.Dialect.Rewrite(query), args...)
}

// Exec executes a statement with automatic placeholder rewriting.
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.Rewrite(query), args...)
}

// InsertReturningID executes an INSERT and returns the new row's ID,
// papering over the LastInsertId / RETURNING split between engines. The
// query must not end in a semicolon.
func (db *DB) InsertReturningID(query string, args ...interface{}) (int64, error) {
	return insertReturningID(db.DB, db.Dialect, query, args...)
}

// Begin starts a dialect-aware transaction.
func (db *DB) Begin() (*Tx, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, dialect: db.Dialect}, nil
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func insertReturningID(e execer, dialect Dialect, query string, args ...interface{}) (int64, error) {
	query = dialect.Rewrite(query)
	if dialect.SupportsLastInsertID() {
		res, err := e.Exec(query, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	var id int64
	err := e.QueryRow(query+" RETURNING id", args...).Scan(&id)
	return id, err
}
