// Package postgres implements the store contracts on PostgreSQL through
// database/sql and the pgx stdlib driver. It also owns the embedded schema,
// the goose runner that applies it, error mapping from PostgreSQL codes to
// store errors, and the database health checker.
package postgres
