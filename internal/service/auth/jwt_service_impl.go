package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/platform/logger"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey           []byte
	tokenLifetime        time.Duration    // Access token lifetime
	refreshTokenLifetime time.Duration    // Refresh token lifetime
	timeFunc             func() time.Time // Injectable for testing
	clockSkew            time.Duration    // Allowed time drift during validation
}

// jwtCustomClaims defines the structure of JWT claims we issue.
type jwtCustomClaims struct {
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacJWTService{
		signingKey:           []byte(cfg.JWTSecret),
		tokenLifetime:        time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		refreshTokenLifetime: time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		timeFunc:             time.Now,
		clockSkew:            2 * time.Minute, // Tolerate minor clock drift between nodes
	}, nil
}

// GenerateToken creates a signed JWT access token for the subject.
func (s *hmacJWTService) GenerateToken(ctx context.Context, subject string) (string, error) {
	return s.generate(ctx, subject, TokenTypeAccess, s.tokenLifetime)
}

// GenerateRefreshToken creates a signed JWT refresh token for the subject.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, subject string) (string, error) {
	return s.generate(ctx, subject, TokenTypeRefresh, s.refreshTokenLifetime)
}

// ValidateToken validates a JWT access token and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a JWT refresh token and returns the claims
// if valid. A valid access token presented here fails with ErrInvalidToken.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, tokenString, TokenTypeRefresh)
}

// generate builds and signs a token of the given type.
func (s *hmacJWTService) generate(
	ctx context.Context,
	subject string,
	tokenType TokenType,
	lifetime time.Duration,
) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwtCustomClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.New().String(), // Unique token ID
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT token",
			"error", err,
			"token_type", tokenType,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign %s token with HMAC-SHA256: %w", tokenType, err)
	}

	return signedToken, nil
}

// validate parses the token, runs the full validation sequence, and returns
// the claims. The sequence is: structural/signature verification, required
// claim presence (exp, nbf, sub, typ), validity window, token type match.
// All failures collapse to ErrInvalidToken except the window check, which
// returns ErrExpiredToken so it can be logged distinctly.
func (s *hmacJWTService) validate(
	ctx context.Context,
	tokenString string,
	expected TokenType,
) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time {
			return now // Use the injected time function for validation
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired",
				"error", err,
				"token_type", expected)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			// Outside the [nbf, exp) window, same as expiry for callers.
			log.Debug("token validation failed: token not yet valid",
				"error", err,
				"token_type", expected)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token",
				"error", err,
				"token_type", expected)
			return nil, ErrInvalidToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature",
				"error", err,
				"token_type", expected)
			return nil, ErrInvalidToken
		default:
			log.Debug("token validation failed: other validation error",
				"error", err,
				"token_type", expected,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	// Required-claim presence: exp, nbf, sub, typ must all be present.
	// The parser enforces exp; the remainder are checked here.
	if claims.NotBefore == nil || claims.Subject == "" || claims.TokenType == "" {
		log.Debug("token validation failed: missing required claims",
			"token_type", expected)
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expected {
		log.Debug("token validation failed: wrong token type",
			"expected", expected,
			"actual", claims.TokenType)
		return nil, ErrInvalidToken
	}

	validated := &Claims{
		Subject:   claims.Subject,
		TokenType: claims.TokenType,
		NotBefore: claims.NotBefore.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		validated.IssuedAt = claims.IssuedAt.Time
	}

	log.Debug("token validated successfully",
		"token_type", expected,
		"token_id", claims.ID,
		"expiry", claims.ExpiresAt.Time)

	return validated, nil
}
