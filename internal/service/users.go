package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/domain"
)

type UserService struct {
	d   Deps
	log *zap.Logger
}

// SignIn stores the verified profile of a user who just authenticated with the identity provider.
func (s *UserService) SignIn(ctx context.Context, p domain.UserProfile) (*domain.User, error) {
	p.Email = strings.TrimSpace(p.Email)
	if err := s.d.Validator.Struct(p); err != nil {
		return nil, err
	}
	u, err := s.d.Store.Users().Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info("user signed in", zap.String("user_id", u.ID))
	return u, nil
}

// ResolveActor maps a session subject to the actor it represents now.
// A subject whose user row is gone resolves to an error.
func (s *UserService) ResolveActor(ctx context.Context, uid string) (access.Actor, error) {
	u, err := s.d.Store.Users().FindByID(ctx, uid)
	if err != nil {
		return access.Anonymous, err
	}
	if u == nil {
		return access.Anonymous, domain.NotFound("user")
	}
	return access.ActorFor(u), nil
}

func (s *UserService) Me(ctx context.Context, a access.Actor) (*domain.User, error) {
	if err := s.d.Policy.Authorize(a, access.ReadOwnProfile); err != nil {
		return nil, err
	}
	u, err := s.d.Store.Users().FindByID(ctx, a.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user")
	}
	return u, nil
}

// SetAdmin changes the admin flag. It is an operator action and bypasses the policy.
func (s *UserService) SetAdmin(ctx context.Context, userID string, admin bool) (*domain.User, error) {
	u, err := s.d.Store.Users().SetAdmin(ctx, userID, admin)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin flag changed", zap.String("user_id", userID), zap.Bool("is_admin", admin))
	return u, nil
}
