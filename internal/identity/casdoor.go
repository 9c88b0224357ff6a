package identity

import (
	"context"
	"errors"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"studio-marketplace/internal/domain"
)

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

// Casdoor verifies access tokens issued by a Casdoor instance against its
// signing certificate. No network call is made per verification.
type Casdoor struct {
	client *casdoorsdk.Client
}

var _ Provider = (*Casdoor)(nil)

func NewCasdoor(c CasdoorConfig) *Casdoor {
	return &Casdoor{client: casdoorsdk.NewClient(
		c.Endpoint, c.ClientID, c.ClientSecret, c.Certificate, c.Organization, c.Application,
	)}
}

func (p *Casdoor) Verify(_ context.Context, assertion string) (*domain.UserProfile, error) {
	claims, err := p.client.ParseJwtToken(assertion)
	if err != nil {
		return nil, rejected(err)
	}
	u := claims.User
	if u.Id == "" {
		return nil, rejected(errors.New("token has no user id"))
	}
	return &domain.UserProfile{
		ID:              u.Id,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.Avatar,
	}, nil
}
