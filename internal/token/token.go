// Package token issues and validates the signed identity tokens that bind a
// request to one user and one tenant. Tokens are never store-scoped; store
// selection is a per-request header so clients can switch stores without
// re-authenticating.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes short-lived access tokens from long-lived refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and kind
	// mismatches.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the payload carried by every issued token.
type Claims struct {
	UserID       uuid.UUID `json:"user_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	TokenVersion int       `json:"token_version"`
	Kind         Kind      `json:"kind"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a shared HMAC secret. It is pure over
// (secret, payload, clock) and safe for concurrent use.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a Codec from the configured signing secret and TTLs.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (c *Codec) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token of the given kind binding (user, tenant) at the user's
// current token version.
func (c *Codec) Issue(userID, tenantID uuid.UUID, tokenVersion int, kind Kind) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:       userID,
		TenantID:     tenantID,
		TokenVersion: tokenVersion,
		Kind:         kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// IssuePair issues a matching access + refresh token pair.
func (c *Codec) IssuePair(userID, tenantID uuid.UUID, tokenVersion int) (access, refresh string, err error) {
	if access, err = c.Issue(userID, tenantID, tokenVersion, KindAccess); err != nil {
		return "", "", err
	}
	if refresh, err = c.Issue(userID, tenantID, tokenVersion, KindRefresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Validate parses the raw token, verifies its signature and expiry, and
// requires it to be of the expected kind. The embedded token version is NOT
// checked here; the Context Resolver compares it against the user record.
func (c *Codec) Validate(raw string, expected Kind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != expected {
		return nil, fmt.Errorf("%w: expected %s token, got %s", ErrInvalidToken, expected, claims.Kind)
	}
	if claims.UserID == uuid.Nil || claims.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}
	return claims, nil
}
