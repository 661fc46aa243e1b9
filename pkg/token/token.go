// Package token inspects backend session tokens on the client side.
//
// The backend signs and verifies its own tokens; the storefront only needs
// to know whether a persisted token is still worth presenting (and which
// record it belongs to), so the decode is deliberately unverified.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the backend token payload the storefront reads.
type Claims struct {
	RecordID string `json:"id"`
	jwt.RegisteredClaims
}

// Decode parses t without verifying its signature and returns the claims.
// Returns (nil, false) for anything that is not a well-formed JWT.
func Decode(t string) (*Claims, bool) {
	if t == "" {
		return nil, false
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Valid reports whether t decodes and has not expired. Tokens without an
// exp claim are treated as invalid.
func Valid(t string) bool {
	claims, ok := Decode(t)
	if !ok || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.After(time.Now())
}
