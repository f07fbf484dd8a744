// Package auth implements the stateless session layer: the JWT token
// codec and the login/refresh/authorize session flows on top of it.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token type tags embedded in claims. A token is only accepted for the
// purpose its tag names, preventing a long-lived refresh token from
// standing in as an access credential or vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService defines operations for issuing and verifying JWT session
// tokens. Verification is a pure function of (token, secret, now): no
// server-side session record exists.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	// Refresh tokens live longer and are exchanged for new token pairs.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies an access token and returns its claims.
	// Every failure mode surfaces as an error wrapping ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateRefreshToken verifies a refresh token and returns its
	// claims. Every failure mode surfaces as an error wrapping
	// ErrInvalidToken; an access token presented here is rejected.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a verified token.
type Claims struct {
	// UserID is the subject the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is the purpose tag, TokenTypeAccess or TokenTypeRefresh.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
