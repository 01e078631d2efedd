package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the shopper token issued by the account service.
type AccessTokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the caller derived from verified claims.
type Identity struct {
	UserID string
	Email  string
}

// Identity prefers the explicit user_id claim and falls back to sub.
func (c *AccessTokenClaims) Identity() Identity {
	userID := strings.TrimSpace(c.UserID)
	if userID == "" {
		userID = strings.TrimSpace(c.Subject)
	}
	return Identity{UserID: userID, Email: strings.TrimSpace(c.Email)}
}
