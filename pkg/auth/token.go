package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shery7378/multifront/pkg/config"
)

// clockSkew tolerates small drift between this service and the account service.
const clockSkew = 30 * time.Second

var (
	ErrNoSecret    = errors.New("jwt secret is required")
	ErrEmptyToken  = errors.New("token is required")
	ErrNoSubject   = errors.New("token carries no user id")
	signingMethods = []string{jwt.SigningMethodHS256.Alg()}
)

// Verifier checks shopper access tokens. It only verifies; tokens are minted
// by the account service.
type Verifier struct {
	parser *jwt.Parser
	secret []byte
}

func NewVerifier(cfg config.JWTConfig) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(signingMethods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Verifier{parser: jwt.NewParser(opts...), secret: []byte(cfg.Secret)}, nil
}

// Verify validates raw (with or without a "Bearer " prefix) and returns the caller.
func (v *Verifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if scheme, rest, ok := strings.Cut(raw, " "); ok && strings.EqualFold(scheme, "bearer") {
		raw = strings.TrimSpace(rest)
	} else if strings.EqualFold(raw, "bearer") {
		raw = ""
	}
	if raw == "" {
		return Identity{}, ErrEmptyToken
	}

	var claims AccessTokenClaims
	if _, err := v.parser.ParseWithClaims(raw, &claims, v.key); err != nil {
		return Identity{}, fmt.Errorf("verifying access token: %w", err)
	}
	id := claims.Identity()
	if id.UserID == "" {
		return Identity{}, ErrNoSubject
	}
	return id, nil
}

func (v *Verifier) key(*jwt.Token) (any, error) {
	return v.secret, nil
}
