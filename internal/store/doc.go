// Package store defines the persistence interfaces for users and tasks,
// the shared error taxonomy, and the DBTX abstraction over database
// connections and transactions. Implementations live under
// internal/platform.
package store
