package domain

import (
	"context"
	"time"
)

// Portfolio categories shown on the public site.
const (
	CategoryAds        = "ads"
	CategoryPortraits  = "portraits"
	CategoryProducts   = "products"
	CategoryBranding   = "branding"
	CategoryRetouching = "retouching"

	// CategoryAll is the listing filter that disables category filtering.
	CategoryAll = "all"
)

var PortfolioCategories = []string{
	CategoryAds, CategoryPortraits, CategoryProducts, CategoryBranding, CategoryRetouching,
}

func IsPortfolioCategory(s string) bool {
	for _, c := range PortfolioCategories {
		if c == s {
			return true
		}
	}
	return false
}

type PortfolioItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Category      string    `gorm:"size:100;not null;index" json:"category"`
	MainImage     string    `gorm:"size:500;not null" json:"mainImage"`
	BeforeImage   string    `gorm:"size:500" json:"beforeImage"`
	AfterImage    string    `gorm:"size:500" json:"afterImage"`
	IsBeforeAfter bool      `gorm:"not null;default:false" json:"isBeforeAfter"`
	Tools         string    `gorm:"type:text" json:"tools"`
	Featured      bool      `gorm:"not null;default:false" json:"featured"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (PortfolioItem) TableName() string { return "portfolio_items" }

type PortfolioItemInput struct {
	Title         string `json:"title" validate:"required,max=255"`
	Description   string `json:"description"`
	Category      string `json:"category" validate:"required,portfolio_category"`
	MainImage     string `json:"mainImage" validate:"required,max=500"`
	BeforeImage   string `json:"beforeImage" validate:"max=500"`
	AfterImage    string `json:"afterImage" validate:"max=500"`
	IsBeforeAfter bool   `json:"isBeforeAfter"`
	Tools         string `json:"tools"`
	Featured      bool   `json:"featured"`
}

func (in PortfolioItemInput) Model() *PortfolioItem {
	return &PortfolioItem{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		MainImage:     in.MainImage,
		BeforeImage:   in.BeforeImage,
		AfterImage:    in.AfterImage,
		IsBeforeAfter: in.IsBeforeAfter,
		Tools:         in.Tools,
		Featured:      in.Featured,
	}
}

// PortfolioItemPatch is a partial update; nil fields are left untouched.
// Set fields follow the creation rules, so required fields cannot be blanked.
type PortfolioItemPatch struct {
	Title         *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description   *string `json:"description"`
	Category      *string `json:"category" validate:"omitnil,portfolio_category"`
	MainImage     *string `json:"mainImage" validate:"omitnil,min=1,max=500"`
	BeforeImage   *string `json:"beforeImage" validate:"omitnil,max=500"`
	AfterImage    *string `json:"afterImage" validate:"omitnil,max=500"`
	IsBeforeAfter *bool   `json:"isBeforeAfter"`
	Tools         *string `json:"tools"`
	Featured      *bool   `json:"featured"`
}

// Columns returns the column assignments for the set fields.
func (p PortfolioItemPatch) Columns() map[string]any {
	m := map[string]any{}
	setString(m, "title", p.Title)
	setString(m, "description", p.Description)
	setString(m, "category", p.Category)
	setString(m, "main_image", p.MainImage)
	setString(m, "before_image", p.BeforeImage)
	setString(m, "after_image", p.AfterImage)
	setBool(m, "is_before_after", p.IsBeforeAfter)
	setString(m, "tools", p.Tools)
	setBool(m, "featured", p.Featured)
	return m
}

type PortfolioRepository interface {
	Create(ctx context.Context, item *PortfolioItem) error
	Update(ctx context.Context, id uint, patch PortfolioItemPatch) (*PortfolioItem, error)
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]PortfolioItem, error)
	ListByCategory(ctx context.Context, category string) ([]PortfolioItem, error)
}

func setString(m map[string]any, col string, v *string) {
	if v != nil {
		m[col] = *v
	}
}

func setBool(m map[string]any, col string, v *bool) {
	if v != nil {
		m[col] = *v
	}
}

func setInt(m map[string]any, col string, v *int) {
	if v != nil {
		m[col] = *v
	}
}
