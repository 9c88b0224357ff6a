package repo

import (
	"context"

	"gorm.io/gorm"

	"studio-marketplace/internal/domain"
)

// Store is the gorm-backed domain.Store.
type Store struct {
	db          *gorm.DB
	users       *UserRepo
	portfolio   *PortfolioRepo
	courses     *CourseRepo
	enrollments *EnrollmentRepo
	contacts    *ContactRepo
}

var _ domain.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		users:       NewUserRepo(db),
		portfolio:   NewPortfolioRepo(db),
		courses:     NewCourseRepo(db),
		enrollments: NewEnrollmentRepo(db),
		contacts:    NewContactRepo(db),
	}
}

func (s *Store) Users() domain.UserRepository             { return s.users }
func (s *Store) Portfolio() domain.PortfolioRepository    { return s.portfolio }
func (s *Store) Courses() domain.CourseRepository         { return s.courses }
func (s *Store) Enrollments() domain.EnrollmentRepository { return s.enrollments }
func (s *Store) Contacts() domain.ContactRepository       { return s.contacts }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return domain.StorageError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return domain.StorageError("ping", err)
	}
	return nil
}

// Migrate creates or updates one table per entity.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
		return domain.StorageError("migrate", err)
	}
	return nil
}

const newestFirst = "created_at DESC, id DESC"
