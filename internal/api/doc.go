// Package api handles incoming HTTP requests, request validation and
// response formatting for the inventory endpoints. It adapts HTTP to the
// inventory, newsletter and token services and maps their errors to status
// codes without leaking internal details.
package api
