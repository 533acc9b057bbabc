// Package store defines the persistence contracts for tasks, the query types
// the list endpoint is built on, and the transaction helper shared by every
// database-backed implementation. Concrete implementations live under
// internal/platform.
package store
