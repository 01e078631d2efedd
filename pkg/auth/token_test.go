package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shery7378/multifront/pkg/config"
)

var testCfg = config.JWTConfig{Secret: "secret", Issuer: "accounts"}

func signed(t *testing.T, secret string, method jwt.SigningMethod, claims AccessTokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func registered(issuer string, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: jwt.NewNumericDate(exp)}
}

func newVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testCfg)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func TestVerifyFallsBackToSubject(t *testing.T) {
	claims := AccessTokenClaims{Email: "member@example.com", RegisteredClaims: registered("accounts", time.Now().Add(time.Hour))}
	claims.Subject = "user-42"

	id, err := newVerifier(t).Verify("Bearer " + signed(t, "secret", jwt.SigningMethodHS256, claims))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "user-42" || id.Email != "member@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Now()
	cases := map[string]string{
		"wrong issuer":  signed(t, "secret", jwt.SigningMethodHS256, AccessTokenClaims{UserID: "u", RegisteredClaims: registered("elsewhere", now.Add(time.Hour))}),
		"expired":       signed(t, "secret", jwt.SigningMethodHS256, AccessTokenClaims{UserID: "u", RegisteredClaims: registered("accounts", now.Add(-time.Hour))}),
		"bad signature": signed(t, "other", jwt.SigningMethodHS256, AccessTokenClaims{UserID: "u", RegisteredClaims: registered("accounts", now.Add(time.Hour))}),
		"wrong alg":     signed(t, "secret", jwt.SigningMethodHS512, AccessTokenClaims{UserID: "u", RegisteredClaims: registered("accounts", now.Add(time.Hour))}),
		"garbage":       "not-a-token",
	}
	v := newVerifier(t)
	for name, token := range cases {
		if _, err := v.Verify(token); err == nil {
			t.Fatalf("%s: expected verification error", name)
		}
	}
}

func TestVerifyRequiresUser(t *testing.T) {
	token := signed(t, "secret", jwt.SigningMethodHS256, AccessTokenClaims{RegisteredClaims: registered("accounts", time.Now().Add(time.Hour))})
	if _, err := newVerifier(t).Verify(token); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("expected missing subject error, got %v", err)
	}
	if _, err := newVerifier(t).Verify("Bearer   "); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected empty token error, got %v", err)
	}
}

func TestVerifyToleratesSmallSkew(t *testing.T) {
	token := signed(t, "secret", jwt.SigningMethodHS256, AccessTokenClaims{UserID: "u", RegisteredClaims: registered("accounts", time.Now().Add(-5*time.Second))})
	if _, err := newVerifier(t).Verify(token); err != nil {
		t.Fatalf("expected token within leeway to pass: %v", err)
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier(config.JWTConfig{}); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}
