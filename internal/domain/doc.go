// Package domain defines the core business entities of the inventory service:
// inventory items and newsletter subscriptions, together with their validation
// rules and the validation error types shared by the other layers.
package domain
