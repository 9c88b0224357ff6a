package domain

import "context"

// Store is the handle to all persisted state. Components receive it explicitly.
type Store interface {
	Users() UserRepository
	Portfolio() PortfolioRepository
	Courses() CourseRepository
	Enrollments() EnrollmentRepository
	Contacts() ContactRepository
	Ping(ctx context.Context) error
}

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&PortfolioItem{},
		&Course{},
		&CourseEnrollment{},
		&ContactSubmission{},
	}
}
