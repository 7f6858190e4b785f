package api

// CountResponse is returned by the count endpoints.
type CountResponse struct {
	Count int64 `json:"count"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	JWTToken string `json:"jwtToken"`
}

// NewsletterRequest defines the payload for a newsletter sign-up.
type NewsletterRequest struct {
	Email string `json:"email" validate:"required"`
}
