package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"studio-marketplace/internal/domain"
)

type CourseRepo struct{ db *gorm.DB }

func NewCourseRepo(db *gorm.DB) *CourseRepo { return &CourseRepo{db: db} }

func (r *CourseRepo) Create(ctx context.Context, c *domain.Course) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return domain.StorageError("course.create", err)
	}
	return nil
}

func (r *CourseRepo) Update(ctx context.Context, id uint, cols map[string]any) (*domain.Course, error) {
	if cols == nil {
		cols = map[string]any{}
	}
	cols["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Course{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, domain.StorageError("course.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound("course")
	}
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("course")
	}
	return c, nil
}

// Delete leaves enrollments referencing the course in place.
func (r *CourseRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Course{}, id).Error; err != nil {
		return domain.StorageError("course.delete", err)
	}
	return nil
}

// FindByID returns nil, nil when the course does not exist.
func (r *CourseRepo) FindByID(ctx context.Context, id uint) (*domain.Course, error) {
	var c domain.Course
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("course.find", err)
	}
	return &c, nil
}

func (r *CourseRepo) ListAll(ctx context.Context) ([]domain.Course, error) {
	cs := make([]domain.Course, 0)
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&cs).Error; err != nil {
		return nil, domain.StorageError("course.list", err)
	}
	return cs, nil
}

func (r *CourseRepo) ListPublished(ctx context.Context) ([]domain.Course, error) {
	cs := make([]domain.Course, 0)
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order(newestFirst).
		Find(&cs).Error
	if err != nil {
		return nil, domain.StorageError("course.list_published", err)
	}
	return cs, nil
}
