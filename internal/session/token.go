// Package session scopes draft storage to one browser.
//
// Each browser gets an HttpOnly cookie holding an HS256-signed JWT whose
// subject is a random draft key (an xid). The server never learns who the
// visitor is; the token only proves that the key was issued here, so one
// browser cannot read another's draft by guessing keys.
//
//	Cookie: genfolio_session=<jwt>  →  Middleware  →  ctx[draftKey] = "<xid>"
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	issuer     = "genfolio"
	DefaultTTL = 30 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("session: invalid token")

// TokenService signs and verifies session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService needs a secret of at least 16 bytes. A zero ttl means
// DefaultTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("session: secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// TTL is how long an issued token stays valid.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a fresh draft key and the token that carries it.
func (s *TokenService) Issue() (key, token string, err error) {
	key = xid.New().String()
	token, err = s.Sign(key)
	if err != nil {
		return "", "", err
	}
	return key, token, nil
}

// Sign returns a token for an existing key.
func (s *TokenService) Sign(key string) (string, error) {
	now := s.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   key,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing token: %w", err)
	}
	return signed, nil
}

// Validate returns the draft key carried by token.
func (s *TokenService) Validate(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if _, err := xid.FromString(c.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a draft key", ErrInvalidToken)
	}
	return c.Subject, nil
}
