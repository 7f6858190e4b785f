// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. Items keep their
// free-form attributes in a jsonb column; schema changes ship as embedded
// goose migrations.
package postgres
