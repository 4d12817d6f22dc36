// Package postgres provides durable implementations of the authgate store
// contracts on PostgreSQL via database/sql. The schema is managed by the
// embedded migrations (see RunMigrations); refresh-token rows are never
// deleted, only flipped to revoked, so the table doubles as an audit log.
package postgres
