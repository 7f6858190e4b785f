// Package service contains the application use cases. It sits between the
// HTTP layer and the store interfaces defined in internal/store: every store
// call gets a bounded context, inputs are validated against the domain rules
// and failures are logged with the request's logger before being returned
// as sentinel-wrapping errors the API layer can map to status codes.
package service
