package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// TokenRevoker records revoked token IDs until the tokens expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService service.UserService
	jwtService  auth.JWTService
	revoker     TokenRevoker
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// revoker may be nil, in which case logout and refresh rotation do not
// invalidate tokens.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	revoker TokenRevoker,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		revoker:     revoker,
		logger:      logger.With("component", "auth_handler"),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.ValidationFields(err))
		return
	}

	user, err := h.userService.Register(r.Context(), service.Registration{
		Name:     req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.PhoneNumber,
		Address:  req.Address,
	})
	if err != nil {
		if fields := registrationFieldErrors(err); fields != nil {
			shared.RespondWithValidationErrors(w, r, fields)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Success:       true,
		Message:       "User registered successfully",
		User:          userToResponse(user),
		Authorization: authorizationFromPair(pair),
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.ValidationFields(err))
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user logged in",
		slog.String("user_id", user.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Success:       true,
		Message:       "Login successful",
		User:          userToResponse(user),
		Authorization: authorizationFromPair(pair),
	})
}

// RefreshToken handles the /auth/refresh endpoint. The presented refresh
// token is revoked and a new pair is issued.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.ValidationFields(err))
		return
	}

	ctx := r.Context()
	claims, err := h.jwtService.ValidateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}

	if h.revoker != nil && claims.ID != "" {
		revoked, err := h.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to refresh token", err)
			return
		}
		if revoked {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token",
				auth.ErrRevokedToken, shared.WithElevatedLogLevel())
			return
		}
	}

	if _, err := h.userService.GetUser(ctx, claims.UserID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUserNotFound) {
			status = http.StatusUnauthorized
		}
		shared.RespondWithErrorAndLog(w, r, status, "Invalid refresh token", err)
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(ctx, claims.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	if h.revoker != nil && claims.ID != "" {
		if err := h.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
			logger.FromContextOrDefault(ctx, h.logger).Warn("failed to revoke used refresh token",
				slog.String("error", err.Error()))
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		Success:       true,
		Authorization: authorizationFromPair(pair),
	})
}

// Me handles the /auth/me endpoint.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "User not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{
		Success: true,
		User:    userToResponse(user),
	})
}

// Logout handles the /auth/logout endpoint by revoking the presented access
// token until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	if h.revoker != nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
			return
		}
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user logged out",
		slog.String("user_id", claims.UserID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Success: true,
		Message: "Successfully logged out",
	})
}

// registrationFieldErrors maps registration failures that belong to a single
// input field. It returns nil for anything else.
func registrationFieldErrors(err error) map[string][]string {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return map[string][]string{"email": {"The email has already been taken."}}
	case errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrEmptyEmail):
		return map[string][]string{"email": {"The email field must be a valid email address."}}
	case errors.Is(err, domain.ErrEmptyUserName):
		return map[string][]string{"full_name": {"The full name field is required."}}
	case errors.Is(err, domain.ErrPasswordTooShort), errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrEmptyPassword):
		return map[string][]string{"password": {err.Error()}}
	}
	return nil
}
