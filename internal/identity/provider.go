// Package identity verifies sign-in assertions issued by an external identity provider.
package identity

import (
	"context"
	"fmt"

	"studio-marketplace/internal/domain"
)

// Provider turns a provider-issued assertion into a user profile.
type Provider interface {
	Verify(ctx context.Context, assertion string) (*domain.UserProfile, error)
}

func rejected(err error) error {
	return fmt.Errorf("%w: identity assertion rejected: %w", domain.ErrUnauthorized, err)
}
