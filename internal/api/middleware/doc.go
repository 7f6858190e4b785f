// Package middleware provides the HTTP middleware of the inventory API:
// request tracing and logging, CORS, per-client rate limiting, request body
// limits and the bearer-token access guard.
package middleware
