// Package auth verifies the bearer tokens that identify an ehome account.
//
// Tokens are HS256 JWTs carrying the account id, name and mobile number, the
// same identity the login flow keeps in its session.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a token issued without an explicit TTL.
const DefaultSessionTTL = 24 * time.Hour

var (
	ErrMissingSecret = errors.New("auth: signing secret must be provided")
	ErrNoToken       = errors.New("auth: no session token")
	ErrInvalidToken  = errors.New("auth: invalid session token")
	ErrExpiredToken  = errors.New("auth: session token expired")
	ErrAnonymous     = errors.New("auth: session has no user id")
)

// Config holds what Sessions needs to sign and verify tokens.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

// Session is the identity carried by a verified token.
type Session struct {
	UserID    uint
	Name      string
	Mobile    string
	ExpiresAt time.Time
}

type sessionClaims struct {
	UserID uint   `json:"uid"`
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	jwt.RegisteredClaims
}

// Sessions signs and verifies session tokens with a shared secret.
type Sessions struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewSessions(cfg Config) (*Sessions, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	s := &Sessions{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    cfg.Clock,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.now == nil {
		s.now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	s.parser = jwt.NewParser(opts...)
	return s, nil
}

// Issue signs a token for session. ExpiresAt is ignored; tokens live for the
// configured TTL from now.
func (s *Sessions) Issue(session Session) (string, error) {
	if session.UserID == 0 {
		return "", ErrAnonymous
	}

	now := s.now()
	claims := sessionClaims{
		UserID: session.UserID,
		Name:   session.Name,
		Mobile: session.Mobile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(session.UserID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and issuer of token and returns the
// session it carries. Every failure matches ErrInvalidToken or, for stale
// tokens, ErrExpiredToken.
func (s *Sessions) Verify(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	var claims sessionClaims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %w", ErrExpiredToken, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	case claims.UserID == 0:
		return nil, ErrAnonymous
	}

	session := &Session{
		UserID: claims.UserID,
		Name:   claims.Name,
		Mobile: claims.Mobile,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return session, nil
}
