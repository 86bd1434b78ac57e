package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tasknest/tasknest/internal/api/shared"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/platform/logger"
	"github.com/tasknest/tasknest/internal/service/auth"
	"github.com/tasknest/tasknest/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore      store.UserStore
	jwtService     auth.JWTService
	authenticator  *auth.Authenticator
	passwordHasher *auth.BcryptVerifier
	tokenLifetime  time.Duration
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	authenticator *auth.Authenticator,
	passwordHasher *auth.BcryptVerifier,
	tokenLifetime time.Duration,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		userStore:      userStore,
		jwtService:     jwtService,
		authenticator:  authenticator,
		passwordHasher: passwordHasher,
		tokenLifetime:  tokenLifetime,
		logger:         log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}

	resp, err := h.issueTokens(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same response as a wrong password; do not reveal which.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	if err := h.passwordHasher.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	resp, err := h.issueTokens(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// RefreshToken handles POST /api/auth/refresh. A valid refresh token yields
// a fresh token pair; the old pair is not revoked.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.authenticator.ResolveRefresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid refresh token")
		return
	}

	resp, err := h.issueTokens(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Me handles GET /api/users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	})
}

// issueTokens mints an access/refresh pair for the user. Both tokens carry
// the user's email as subject.
func (h *AuthHandler) issueTokens(ctx context.Context, user *domain.User) (AuthResponse, error) {
	accessToken, err := h.jwtService.GenerateToken(ctx, user.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(ctx, user.Email)
	if err != nil {
		return AuthResponse{}, err
	}

	logger.FromContextOrDefault(ctx, h.logger).Debug("issued token pair",
		"user_id", user.ID)

	return AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().UTC().Add(h.tokenLifetime).Format(time.RFC3339),
	}, nil
}
