package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"studio-marketplace/internal/domain"
)

type EnrollmentRepo struct{ db *gorm.DB }

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// Enroll always inserts: no duplicate check and no course existence check.
func (r *EnrollmentRepo) Enroll(ctx context.Context, userID string, courseID uint) (*domain.CourseEnrollment, error) {
	e := domain.CourseEnrollment{UserID: userID, CourseID: courseID}
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, domain.StorageError("enrollment.create", err)
	}
	return &e, nil
}

func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]domain.CourseEnrollment, error) {
	es := make([]domain.CourseEnrollment, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&es).Error
	if err != nil {
		return nil, domain.StorageError("enrollment.list", err)
	}
	return es, nil
}

func (r *EnrollmentRepo) MarkCompleted(ctx context.Context, id uint) (*domain.CourseEnrollment, error) {
	res := r.db.WithContext(ctx).Model(&domain.CourseEnrollment{}).
		Where("id = ?", id).
		Update("completed_at", time.Now())
	if res.Error != nil {
		return nil, domain.StorageError("enrollment.complete", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound("enrollment")
	}
	var e domain.CourseEnrollment
	err := r.db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("enrollment")
	}
	if err != nil {
		return nil, domain.StorageError("enrollment.complete", err)
	}
	return &e, nil
}
