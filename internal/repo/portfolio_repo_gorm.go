package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"studio-marketplace/internal/domain"
)

type PortfolioRepo struct{ db *gorm.DB }

func NewPortfolioRepo(db *gorm.DB) *PortfolioRepo { return &PortfolioRepo{db: db} }

func (r *PortfolioRepo) Create(ctx context.Context, item *domain.PortfolioItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return domain.StorageError("portfolio.create", err)
	}
	return nil
}

// Update merges the set fields and always refreshes updated_at.
func (r *PortfolioRepo) Update(ctx context.Context, id uint, patch domain.PortfolioItemPatch) (*domain.PortfolioItem, error) {
	cols := patch.Columns()
	cols["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&domain.PortfolioItem{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, domain.StorageError("portfolio.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound("portfolio item")
	}
	var item domain.PortfolioItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("portfolio item")
	}
	if err != nil {
		return nil, domain.StorageError("portfolio.update", err)
	}
	return &item, nil
}

// Delete is a hard delete; deleting a missing id is not an error.
func (r *PortfolioRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.PortfolioItem{}, id).Error; err != nil {
		return domain.StorageError("portfolio.delete", err)
	}
	return nil
}

func (r *PortfolioRepo) ListAll(ctx context.Context) ([]domain.PortfolioItem, error) {
	items := make([]domain.PortfolioItem, 0)
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&items).Error; err != nil {
		return nil, domain.StorageError("portfolio.list", err)
	}
	return items, nil
}

func (r *PortfolioRepo) ListByCategory(ctx context.Context, category string) ([]domain.PortfolioItem, error) {
	items := make([]domain.PortfolioItem, 0)
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order(newestFirst).
		Find(&items).Error
	if err != nil {
		return nil, domain.StorageError("portfolio.list_by_category", err)
	}
	return items, nil
}
