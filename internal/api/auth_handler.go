package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/api/shared"
	"github.com/scholarfund/scholarfund-api/internal/service/auth"
)

// AuthHandler issues the bearer tokens the rest of the API consumes. User
// tokens identify an arbitrary principal (investor or student); admin tokens
// additionally require the configured admin password.
type AuthHandler struct {
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	// adminPasswordHash is the bcrypt hash admin credentials are checked
	// against.
	adminPasswordHash string
	tokenLifetime     time.Duration
	validator         *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	adminPasswordHash string,
	tokenLifetime time.Duration,
) *AuthHandler {
	return &AuthHandler{
		jwtService:        jwtService,
		passwordVerifier:  passwordVerifier,
		adminPasswordHash: adminPasswordHash,
		tokenLifetime:     tokenLifetime,
		validator:         validator.New(),
	}
}

// IssueToken handles POST /auth/token requests.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if req.Role == auth.RoleAdmin {
		if err := h.passwordVerifier.Compare(h.adminPasswordHash, req.Password); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err)
			return
		}
	}

	subject := uuid.New()
	if req.Subject != nil && *req.Subject != uuid.Nil {
		subject = *req.Subject
	}

	token, err := h.jwtService.GenerateToken(r.Context(), subject, req.Role)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		Subject:     subject,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(h.tokenLifetime).UTC().Format(time.RFC3339),
	})
}
