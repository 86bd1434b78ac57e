package auth

import (
	"context"
	"errors"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/platform/logger"
	"github.com/tasknest/tasknest/internal/store"
)

// Authenticator resolves bearer credentials to user identities. It is
// consumed both by the HTTP auth middleware and by the WebSocket upgrade
// handshake, which present the same access tokens through different
// channels.
type Authenticator struct {
	jwtService JWTService
	userStore  store.UserStore
}

// NewAuthenticator creates a new Authenticator with the given dependencies.
func NewAuthenticator(jwtService JWTService, userStore store.UserStore) *Authenticator {
	return &Authenticator{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// ResolveAccess validates an access token and resolves its subject to a
// known user. A structurally valid token whose subject matches no user
// fails with ErrInvalidToken; the caller never learns which check failed.
func (a *Authenticator) ResolveAccess(ctx context.Context, token string) (*domain.User, error) {
	claims, err := a.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return a.resolveSubject(ctx, claims.Subject)
}

// ResolveRefresh validates a refresh token and resolves its subject to a
// known user.
func (a *Authenticator) ResolveRefresh(ctx context.Context, token string) (*domain.User, error) {
	claims, err := a.jwtService.ValidateRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return a.resolveSubject(ctx, claims.Subject)
}

func (a *Authenticator) resolveSubject(ctx context.Context, subject string) (*domain.User, error) {
	user, err := a.userStore.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// A validly signed token for an unknown subject; the account
			// may have been deleted after issuance.
			logger.FromContext(ctx).Warn("valid token with no associated user",
				"subject", subject)
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
