// Package auth provides the session-token primitives: the JWT codec that
// signs and verifies tokens, the revocation registry that makes logout
// effective before expiry, and Authorization header parsing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token that failed verification: bad signature,
// malformed structure, or past its expiry. Callers never learn which.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by a session token.
// UserID must only be read from claims returned by Verify.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens with an HMAC-SHA256 secret.
// The secret is process-wide; rotating it invalidates all outstanding tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec signing with the given secret. Tokens are
// valid for ttl from the moment of issuance.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for the given user id, valid from now until now+ttl.
func (c *TokenCodec) Sign(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Any failure,
// whether bad signature, malformed input, or expiry, yields ErrInvalidToken.
// The claims must not be trusted unless the returned error is nil.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *TokenCodec) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return c.secret, nil
}
