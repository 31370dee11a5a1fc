package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "cafeteria-portal"

// ErrInvalidSession is returned for tokens that fail signature, expiry or shape checks
var ErrInvalidSession = errors.New("invalid session")

// Claims wraps the session in standard JWT claims
type Claims struct {
	Session Session `json:"session"`
	jwt.RegisteredClaims
}

// Codec signs sessions into HS256 tokens and reads them back
type Codec struct {
	secret []byte
	maxAge time.Duration
}

// NewCodec creates a session codec
func NewCodec(secret string, maxAge time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// MaxAge is the lifetime given to every encoded session
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Encode signs the session. A session without an ID is given one.
func (c *Codec) Encode(s *Session) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	now := time.Now()
	claims := Claims{
		Session: *s,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        s.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return tokenString, nil
}

// Decode verifies a token and returns the session inside it
func (c *Codec) Decode(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	s := claims.Session
	s.ID = claims.ID
	return &s, nil
}
