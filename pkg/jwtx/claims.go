package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is how long a login stays valid. There are no refresh
// tokens, a party night is the unit of use so an hour is plenty.
const DefaultAccessTokenTTL = time.Hour

// Scopes carried by every student access token.
const (
	ScopePartyRead  = "party:read"
	ScopePartyWrite = "party:write"
)

// Claims are the access token claims. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims

	Scopes []string `json:"scopes,omitempty"`

	Username string `json:"username,omitempty"`

	// University scopes which parties the student can browse by default.
	University string `json:"university,omitempty"`
}

// NewAccessClaims builds claims for a freshly logged in user.
func NewAccessClaims(
	subject, username, university string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scopes:     scopes,
		Username:   username,
		University: university,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the token was granted scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ValidateIssuer checks the issuer. An empty expectation accepts anything.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry rejects tokens past exp or before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway is ValidateExpiry with a grace period for clock
// skew between phones and the server.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
