package service

import (
	"context"

	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/domain"
)

type ContactService struct {
	d   Deps
	log *zap.Logger
}

// Submit stores an inquiry. New submissions are always unanswered.
func (s *ContactService) Submit(ctx context.Context, a access.Actor, in domain.ContactInput) (*domain.ContactSubmission, error) {
	if err := s.d.Policy.Authorize(a, access.SubmitContact); err != nil {
		return nil, err
	}
	if err := s.d.Validator.Struct(in); err != nil {
		return nil, err
	}
	sub := in.Model()
	if err := s.d.Store.Contacts().Create(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info("contact submitted", zap.Uint("id", sub.ID), zap.String("project_type", sub.ProjectType))
	return sub, nil
}

func (s *ContactService) List(ctx context.Context, a access.Actor) ([]domain.ContactSubmission, error) {
	if err := s.d.Policy.Authorize(a, access.ReadContacts); err != nil {
		return nil, err
	}
	return s.d.Store.Contacts().ListAll(ctx)
}

// MarkResponded is idempotent; an unknown id is not an error.
func (s *ContactService) MarkResponded(ctx context.Context, a access.Actor, id uint) error {
	if err := s.d.Policy.Authorize(a, access.RespondToContact); err != nil {
		return err
	}
	if err := s.d.Store.Contacts().MarkResponded(ctx, id); err != nil {
		return err
	}
	s.log.Info("contact marked responded", zap.Uint("id", id), zap.String("by", a.UserID))
	return nil
}
