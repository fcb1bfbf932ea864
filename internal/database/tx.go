package database

import "database/sql"

// Tx wraps sql.Tx with the same dialect-aware helpers as DB, so a
// repository method can run against either.
type Tx struct {
	*sql.Tx
	dialect Dialect
}

// Querier is the read/write surface shared by *DB and *Tx.
type Querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
	InsertReturningID(query string, args ...interface{}) (int64, error)
}

func (tx *Tx) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return tx.Tx.Query(tx.dialect.Rewrite(query), args...)
}

func (tx *Tx) QueryRow(query string, args ...interface{}) *sql.Row {
	return tx.Tx.QueryRow(tx.dialect.Rewrite(query), args...)
}

func (tx *Tx) Exec(query string, args ...interface{}) (sql.Result, error) {
	return tx.Tx.Exec(tx.dialect.Rewrite(query), args...)
}

func (tx *Tx) InsertReturningID(query string, args ...interface{}) (int64, error) {
	return insertReturningID(tx.Tx, tx.dialect, query, args...)
}
