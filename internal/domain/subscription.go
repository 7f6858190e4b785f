package domain

import (
	"strings"
	"time"
)

// Subscription is a newsletter sign-up. Subscriptions are only ever created.
type Subscription struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSubscription normalises and validates email and stamps the creation time.
func NewSubscription(email string, now time.Time) (*Subscription, error) {
	s := &Subscription{
		Email:     strings.TrimSpace(email),
		CreatedAt: now.UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the Subscription has valid data.
func (s *Subscription) Validate() error {
	if err := ValidateEmail(s.Email); err != nil {
		return NewValidationError("email", "must be a valid email", err)
	}
	return nil
}
