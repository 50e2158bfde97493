package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope markers restrict what a signed token may be used for.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

const (
	DefaultAccessTTL  = 60 * time.Minute
	DefaultRefreshTTL = 12 * time.Hour
	DefaultEmailTTL   = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// NewAccessToken issues a short-lived bearer token whose subject is the
// user's email. A non-positive ttl falls back to DefaultAccessTTL.
func NewAccessToken(email, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return newToken(email, ScopeAccess, secret, ttl)
}

func NewRefreshToken(email, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultRefreshTTL
	}
	return newToken(email, ScopeRefresh, secret, ttl)
}

// NewEmailToken issues a verification token carrying no scope marker.
func NewEmailToken(email, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultEmailTTL
	}
	return newToken(email, "", secret, ttl)
}

func newToken(email, scope, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse verifies the signature and registered claims, including expiry.
func Parse(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ParseAllowExpired verifies the signature but skips date validation, so
// callers can distinguish an expired token from an undecodable one.
func ParseAllowExpired(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports whether the claims' expiry has passed.
func (c *Claims) IsExpired() bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now())
}
