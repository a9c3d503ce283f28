package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role names carried in the token's role claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// JWTService manages the bearer tokens that identify callers. Every
// authenticated principal is a uuid; administrative endpoints additionally
// require the admin role.
type JWTService interface {
	// GenerateToken creates a signed token for the given principal and role.
	GenerateToken(ctx context.Context, subject uuid.UUID, role string) (string, error)

	// ValidateToken verifies the token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, or ErrInvalidToken on
	// failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated identity extracted from a token.
type Claims struct {
	Subject   uuid.UUID
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
