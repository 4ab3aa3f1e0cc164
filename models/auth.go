package models

// LoginRequest represents operator login request
// @Description Operator login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ops@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// GoogleAuthRequest represents Google SSO authentication request
// @Description Google SSO authentication request
type GoogleAuthRequest struct {
	IDToken string `json:"idToken" binding:"required" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// Operator is an authenticated operator allowed to manage the resume corpus
type Operator struct {
	Email    string `json:"email" example:"ops@example.com"`
	Name     string `json:"name,omitempty" example:"Ops Team"`
	Provider string `json:"provider" example:"password"` // "password" or "google"
}

// AuthResponse represents authentication response
// @Description Authentication response with JWT token
type AuthResponse struct {
	Token     string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Operator  Operator `json:"operator"`
	ExpiresIn int      `json:"expires_in" example:"86400"`
	Message   string   `json:"message,omitempty" example:"Login successful"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}
