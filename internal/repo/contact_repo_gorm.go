package repo

import (
	"context"

	"gorm.io/gorm"

	"studio-marketplace/internal/domain"
)

type ContactRepo struct{ db *gorm.DB }

func NewContactRepo(db *gorm.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, s *domain.ContactSubmission) error {
	s.Responded = false
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return domain.StorageError("contact.create", err)
	}
	return nil
}

func (r *ContactRepo) ListAll(ctx context.Context) ([]domain.ContactSubmission, error) {
	out := make([]domain.ContactSubmission, 0)
	err := r.db.WithContext(ctx).Order("submitted_at DESC, id DESC").Find(&out).Error
	if err != nil {
		return nil, domain.StorageError("contact.list", err)
	}
	return out, nil
}

// MarkResponded only ever moves responded to true. Unknown ids are a no-op.
func (r *ContactRepo) MarkResponded(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&domain.ContactSubmission{}).
		Where("id = ?", id).
		Update("responded", true).Error
	if err != nil {
		return domain.StorageError("contact.respond", err)
	}
	return nil
}
