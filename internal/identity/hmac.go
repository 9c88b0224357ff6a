package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"studio-marketplace/internal/domain"
)

type assertionClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Picture   string `json:"picture"`
	jwt.RegisteredClaims
}

// HMAC accepts HS256 assertions signed with a secret shared with the provider.
// The subject claim is the user id.
type HMAC struct {
	secret []byte
	issuer string
}

var _ Provider = (*HMAC)(nil)

func NewHMAC(secret, issuer string) *HMAC {
	return &HMAC{secret: []byte(secret), issuer: issuer}
}

func (h *HMAC) Verify(_ context.Context, assertion string) (*domain.UserProfile, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}
	var c assertionClaims
	if _, err := jwt.ParseWithClaims(assertion, &c, func(*jwt.Token) (any, error) { return h.secret, nil }, opts...); err != nil {
		return nil, rejected(err)
	}
	if c.Subject == "" {
		return nil, rejected(errors.New("missing subject"))
	}
	return &domain.UserProfile{
		ID:              c.Subject,
		Email:           c.Email,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		ProfileImageURL: c.Picture,
	}, nil
}

// Sign issues an assertion for p. Used by tests and local tooling that stand in for the provider.
func (h *HMAC) Sign(p domain.UserProfile, ttl time.Duration) (string, error) {
	now := time.Now()
	c := assertionClaims{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Picture:   p.ProfileImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    h.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(h.secret)
}
