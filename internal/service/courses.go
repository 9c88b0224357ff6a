package service

import (
	"context"

	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/core/cache"
	"studio-marketplace/internal/domain"
)

const publishedCoursesKey = "courses:published"

type CourseService struct {
	d   Deps
	log *zap.Logger
}

// ListPublished is the public catalog. Drafts never appear in it.
func (s *CourseService) ListPublished(ctx context.Context, a access.Actor) ([]domain.Course, error) {
	if err := s.d.Policy.Authorize(a, access.ReadPublishedCourses); err != nil {
		return nil, err
	}
	cs, err := cache.GetOrLoadJSON(s.d.Cache, ctx, publishedCoursesKey, s.d.CacheTTL,
		func(ctx context.Context) (*[]domain.Course, error) {
			cs, err := s.d.Store.Courses().ListPublished(ctx)
			return &cs, err
		})
	if err != nil {
		return nil, err
	}
	if cs == nil || *cs == nil {
		return []domain.Course{}, nil
	}
	return *cs, nil
}

// ListAll includes unpublished courses and is for admins only.
func (s *CourseService) ListAll(ctx context.Context, a access.Actor) ([]domain.Course, error) {
	if err := s.d.Policy.Authorize(a, access.ReadAllCourses); err != nil {
		return nil, err
	}
	return s.d.Store.Courses().ListAll(ctx)
}

// Get returns a course by id. Unpublished courses are reported as not found
// to anyone who may not read drafts.
func (s *CourseService) Get(ctx context.Context, a access.Actor, id uint) (*domain.Course, error) {
	if err := s.d.Policy.Authorize(a, access.ReadPublishedCourses); err != nil {
		return nil, err
	}
	c, err := s.d.Store.Courses().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || (!c.Published && !s.d.Policy.Allowed(a, access.ReadAllCourses)) {
		return nil, domain.NotFound("course")
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, a access.Actor, in domain.CourseInput) (*domain.Course, error) {
	if err := s.d.Policy.Authorize(a, access.ManageCourses); err != nil {
		return nil, err
	}
	if err := s.d.Validator.Struct(in); err != nil {
		return nil, err
	}
	c, err := in.Model()
	if err != nil {
		return nil, err
	}
	if err := s.d.Store.Courses().Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("course created", zap.Uint("id", c.ID), zap.Bool("published", c.Published), zap.String("by", a.UserID))
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, a access.Actor, id uint, p domain.CoursePatch) (*domain.Course, error) {
	if err := s.d.Policy.Authorize(a, access.ManageCourses); err != nil {
		return nil, err
	}
	if err := s.d.Validator.Struct(p); err != nil {
		return nil, err
	}
	cols, err := p.Columns()
	if err != nil {
		return nil, err
	}
	changed := len(cols)
	c, err := s.d.Store.Courses().Update(ctx, id, cols)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("course updated", zap.Uint("id", id), zap.Int("fields", changed), zap.String("by", a.UserID))
	return c, nil
}

// Delete removes the course; enrollments pointing at it are kept.
func (s *CourseService) Delete(ctx context.Context, a access.Actor, id uint) error {
	if err := s.d.Policy.Authorize(a, access.ManageCourses); err != nil {
		return err
	}
	if err := s.d.Store.Courses().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("course deleted", zap.Uint("id", id), zap.String("by", a.UserID))
	return nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if err := s.d.Cache.Invalidate(ctx, publishedCoursesKey); err != nil {
		s.log.Warn("course cache invalidation failed", zap.Error(err))
	}
}
