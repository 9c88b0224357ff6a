package service

import (
	"context"

	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/domain"
)

type EnrollmentService struct {
	d   Deps
	log *zap.Logger
}

func (s *EnrollmentService) ListMine(ctx context.Context, a access.Actor) ([]domain.CourseEnrollment, error) {
	if err := s.d.Policy.Authorize(a, access.ReadOwnEnrollments); err != nil {
		return nil, err
	}
	return s.d.Store.Enrollments().ListByUser(ctx, a.UserID)
}

// Complete stamps completion on one of the actor's own enrollments.
func (s *EnrollmentService) Complete(ctx context.Context, a access.Actor, id uint) (*domain.CourseEnrollment, error) {
	if err := s.d.Policy.Authorize(a, access.CompleteEnrollment); err != nil {
		return nil, err
	}
	mine, err := s.d.Store.Enrollments().ListByUser(ctx, a.UserID)
	if err != nil {
		return nil, err
	}
	owned := false
	for _, e := range mine {
		if e.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		return nil, domain.NotFound("enrollment")
	}
	e, err := s.d.Store.Enrollments().MarkCompleted(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("enrollment completed", zap.Uint("id", id), zap.String("user_id", a.UserID))
	return e, nil
}

// enroll inserts unconditionally: no duplicate check and no course lookup.
// Callers are the purchase workflow after a confirmed payment.
func (s *EnrollmentService) enroll(ctx context.Context, userID string, courseID uint) (*domain.CourseEnrollment, error) {
	e, err := s.d.Store.Enrollments().Enroll(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	enrollmentsCreated.Inc()
	s.log.Info("enrollment created", zap.Uint("id", e.ID), zap.String("user_id", userID), zap.Uint("course_id", courseID))
	return e, nil
}
