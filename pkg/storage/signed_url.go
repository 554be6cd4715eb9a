package storage

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LinkSigner creates and validates signed file-link tokens. Evidence links
// are stored permanently on infraction records, so a zero TTL produces
// tokens without an expiry claim.
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewLinkSigner constructs a signer with the provided secret and TTL.
func NewLinkSigner(secret string, ttl time.Duration) *LinkSigner {
	return &LinkSigner{secret: []byte(secret), ttl: ttl}
}

// Sign returns a signed token referencing the relative file path.
func (s *LinkSigner) Sign(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("relPath required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("signing secret missing")
	}
	claims := jwt.RegisteredClaims{
		Subject:  relPath,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns the embedded file path.
func (s *LinkSigner) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse link token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("invalid link token claims")
	}
	return claims.Subject, nil
}
