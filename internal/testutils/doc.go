// Package testutils provides shared test helpers: a capturing slog handler,
// real signed tokens for auth tests, and environment gates for tests that
// need an external database.
package testutils
