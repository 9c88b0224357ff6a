package service_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-marketplace/internal/core/cache"
	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/repo/repotest"
	"studio-marketplace/internal/service"
)

// pausingStore holds the first published-course read until released.
type pausingStore struct {
	domain.Store
	courses *pausingCourses
}

func (s *pausingStore) Courses() domain.CourseRepository { return s.courses }

type pausingCourses struct {
	domain.CourseRepository
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (p *pausingCourses) ListPublished(ctx context.Context) ([]domain.Course, error) {
	cs, err := p.CourseRepository.ListPublished(ctx)
	if p.armed.CompareAndSwap(true, false) {
		close(p.read)
		<-p.release
	}
	return cs, err
}

func TestUnpublishDuringCatalogLoadIsNotCached(t *testing.T) {
	ctx := context.Background()
	base := repotest.NewStore(t)
	courses := &pausingCourses{
		CourseRepository: base.Courses(),
		read:             make(chan struct{}),
		release:          make(chan struct{}),
	}
	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:", nil)
	t.Cleanup(func() { _ = c.Close() })
	svc := service.New(service.Deps{Store: &pausingStore{Store: base, courses: courses}, Cache: c})

	created, err := svc.Courses.Create(ctx, admin, domain.CourseInput{
		Title: "Draft soon", Description: "d", Price: "10", Level: domain.LevelBeginner,
	})
	require.NoError(t, err)

	courses.armed.Store(true)
	inFlight := make(chan []domain.Course, 1)
	go func() {
		cs, err := svc.Courses.ListPublished(ctx, anon)
		assert.NoError(t, err)
		inFlight <- cs
	}()

	<-courses.read
	_, err = svc.Courses.Update(ctx, admin, created.ID, domain.CoursePatch{Published: ptr(false)})
	require.NoError(t, err)
	close(courses.release)
	<-inFlight

	pub, err := svc.Courses.ListPublished(ctx, anon)
	require.NoError(t, err)
	assert.Empty(t, pub, "a draft must not linger in the public catalog")
}
