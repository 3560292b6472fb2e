// Package session exposes the authenticated shopper identity to the checkout
// flow. Identity arrives as a signed bearer token; loyalty eligibility is a
// pure predicate over the shopper's email domain.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession    = errors.New("no authenticated session")
	ErrInvalidToken = errors.New("invalid session token")
)

type Session struct {
	UserID string
	Email  string
}

type contextKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the authenticated session, or ErrNoSession for
// anonymous requests.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || s.UserID == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseToken validates an HMAC-signed bearer token and extracts the shopper
// identity from its claims.
func ParseToken(tokenString, secret string) (Session, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Session{}, ErrInvalidToken
	}

	return Session{UserID: claims.Subject, Email: claims.Email}, nil
}

// DefaultLoyaltyDomains is the institutional allow-list granting the 20%
// loyalty discount.
var DefaultLoyaltyDomains = []string{"duoc.cl", "duocuc.cl", "profesor.duoc.cl"}

// EligibleForLoyalty reports whether the email's domain is on the allow-list.
func EligibleForLoyalty(email string, domains []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range domains {
		if domain == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
