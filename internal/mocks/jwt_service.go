package mocks

import (
	"context"

	"github.com/tasknest/tasknest/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, subject string) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, subject string) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the JWTService interface.
func (m *MockJWTService) GenerateToken(ctx context.Context, subject string) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, subject)
	}
	return "mock-access-token", nil
}

// ValidateToken implements the JWTService interface.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

// GenerateRefreshToken implements the JWTService interface.
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, subject string) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, subject)
	}
	return "mock-refresh-token", nil
}

// ValidateRefreshToken implements the JWTService interface.
func (m *MockJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}
