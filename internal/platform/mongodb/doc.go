// Package mongodb implements the store interfaces on top of MongoDB using the
// official Go driver. Items and newsletter subscriptions live in two
// collections of one database; identifiers are hex-encoded ObjectIDs.
package mongodb
