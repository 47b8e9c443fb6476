package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var errSubjectMismatch = errors.New("token subject does not match user id")

// JWT requires an HS256 token issued by the account service. The token subject
// becomes the user id.
type JWT struct {
	secret []byte
	now    func() time.Time
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret), now: time.Now}
}

func (v *JWT) Verify(_ context.Context, req Request) (*domain.User, error) {
	if req.Token == "" {
		return nil, fmt.Errorf("%w: token missing", domain.ErrUnauthorized)
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(req.Token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(v.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	if req.UserID != "" && req.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, errSubjectMismatch)
	}
	return newUser(domain.UserID(claims.Subject), req)
}

// Sign issues a token for id; used by dev tooling and tests.
func (v *JWT) Sign(id domain.UserID, ttl time.Duration) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   string(id),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
