package domain

import (
	"context"
	"time"
)

// CourseEnrollment proves a user purchased access to a course.
// UserID and CourseID are soft references; deleting a course keeps its enrollments.
type CourseEnrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"size:191;not null;index" json:"userId"`
	CourseID    uint       `gorm:"not null;index" json:"courseId"`
	EnrolledAt  time.Time  `gorm:"autoCreateTime" json:"enrolledAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (CourseEnrollment) TableName() string { return "course_enrollments" }

type EnrollmentRepository interface {
	Enroll(ctx context.Context, userID string, courseID uint) (*CourseEnrollment, error)
	ListByUser(ctx context.Context, userID string) ([]CourseEnrollment, error)
	MarkCompleted(ctx context.Context, id uint) (*CourseEnrollment, error)
}
