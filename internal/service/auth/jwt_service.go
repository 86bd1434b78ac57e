package auth

import (
	"context"
	"time"
)

// TokenType distinguishes the two credential classes issued by the service.
type TokenType string

// Credential classes. An access token must never be accepted where a
// refresh token is required, and vice versa.
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given
	// subject (the user's email).
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken validates the provided access token string and
	// extracts the claims. Returns ErrExpiredToken if the token is outside
	// its validity window, or ErrInvalidToken for any other failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the
	// given subject. Refresh tokens have a longer lifetime and are used
	// only to mint new token pairs.
	GenerateRefreshToken(ctx context.Context, subject string) (string, error)

	// ValidateRefreshToken validates the provided refresh token string and
	// extracts the claims. Returns ErrExpiredToken or ErrInvalidToken on
	// failure (including an access token presented as a refresh token).
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated claims extracted from a JWT token.
type Claims struct {
	// Subject is the email of the user the token was issued for.
	Subject string `json:"sub,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType TokenType `json:"typ,omitempty"`

	// Standard registered JWT claims
	IssuedAt  time.Time `json:"iat,omitempty"`
	NotBefore time.Time `json:"nbf,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
