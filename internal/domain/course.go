package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

var CourseLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

func IsCourseLevel(s string) bool {
	for _, l := range CourseLevels {
		if l == s {
			return true
		}
	}
	return false
}

type Course struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Title             string         `gorm:"size:255;not null" json:"title"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	ShortDescription  string         `gorm:"size:500" json:"shortDescription"`
	Price             Money          `gorm:"type:decimal(10,2);not null" json:"price"`
	Level             string         `gorm:"size:50;not null" json:"level"`
	Duration          string         `gorm:"size:100" json:"duration"`
	Lessons           int            `gorm:"not null;default:0" json:"lessons"`
	Thumbnail         string         `gorm:"size:500" json:"thumbnail"`
	VideoPreview      string         `gorm:"size:500" json:"videoPreview"`
	Curriculum        datatypes.JSON `json:"curriculum,omitempty"`
	DownloadableFiles datatypes.JSON `json:"downloadableFiles,omitempty"`
	Featured          bool           `gorm:"not null;default:false" json:"featured"`
	Published         bool           `gorm:"not null;index" json:"published"`
	CreatedAt         time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (Course) TableName() string { return "courses" }

type CourseInput struct {
	Title             string         `json:"title" validate:"required,max=255"`
	Description       string         `json:"description" validate:"required"`
	ShortDescription  string         `json:"shortDescription" validate:"max=500"`
	Price             string         `json:"price" validate:"required,money"`
	Level             string         `json:"level" validate:"required,course_level"`
	Duration          string         `json:"duration" validate:"max=100"`
	Lessons           int            `json:"lessons" validate:"min=0"`
	Thumbnail         string         `json:"thumbnail" validate:"max=500"`
	VideoPreview      string         `json:"videoPreview" validate:"max=500"`
	Curriculum        datatypes.JSON `json:"curriculum"`
	DownloadableFiles datatypes.JSON `json:"downloadableFiles"`
	Featured          bool           `json:"featured"`
	// Published defaults to true when omitted.
	Published *bool `json:"published"`
}

// Model converts a validated input. Price must already have passed the money rule.
func (in CourseInput) Model() (*Course, error) {
	price, err := ParseMoney(in.Price)
	if err != nil {
		return nil, NewValidationError("price", "must be a decimal amount")
	}
	published := true
	if in.Published != nil {
		published = *in.Published
	}
	return &Course{
		Title:             in.Title,
		Description:       in.Description,
		ShortDescription:  in.ShortDescription,
		Price:             price,
		Level:             in.Level,
		Duration:          in.Duration,
		Lessons:           in.Lessons,
		Thumbnail:         in.Thumbnail,
		VideoPreview:      in.VideoPreview,
		Curriculum:        in.Curriculum,
		DownloadableFiles: in.DownloadableFiles,
		Featured:          in.Featured,
		Published:         published,
	}, nil
}

// CoursePatch is a partial update validated with the creation rules.
type CoursePatch struct {
	Title             *string        `json:"title" validate:"omitnil,min=1,max=255"`
	Description       *string        `json:"description" validate:"omitnil,min=1"`
	ShortDescription  *string        `json:"shortDescription" validate:"omitnil,max=500"`
	Price             *string        `json:"price" validate:"omitnil,money"`
	Level             *string        `json:"level" validate:"omitnil,course_level"`
	Duration          *string        `json:"duration" validate:"omitnil,max=100"`
	Lessons           *int           `json:"lessons" validate:"omitnil,min=0"`
	Thumbnail         *string        `json:"thumbnail" validate:"omitnil,max=500"`
	VideoPreview      *string        `json:"videoPreview" validate:"omitnil,max=500"`
	Curriculum        datatypes.JSON `json:"curriculum"`
	DownloadableFiles datatypes.JSON `json:"downloadableFiles"`
	Featured          *bool          `json:"featured"`
	Published         *bool          `json:"published"`
}

func (p CoursePatch) Columns() (map[string]any, error) {
	m := map[string]any{}
	setString(m, "title", p.Title)
	setString(m, "description", p.Description)
	setString(m, "short_description", p.ShortDescription)
	if p.Price != nil {
		price, err := ParseMoney(*p.Price)
		if err != nil {
			return nil, NewValidationError("price", "must be a decimal amount")
		}
		m["price"] = price
	}
	setString(m, "level", p.Level)
	setString(m, "duration", p.Duration)
	setInt(m, "lessons", p.Lessons)
	setString(m, "thumbnail", p.Thumbnail)
	setString(m, "video_preview", p.VideoPreview)
	if len(p.Curriculum) > 0 {
		m["curriculum"] = p.Curriculum
	}
	if len(p.DownloadableFiles) > 0 {
		m["downloadable_files"] = p.DownloadableFiles
	}
	setBool(m, "featured", p.Featured)
	setBool(m, "published", p.Published)
	return m, nil
}

type CourseRepository interface {
	Create(ctx context.Context, c *Course) error
	Update(ctx context.Context, id uint, cols map[string]any) (*Course, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Course, error)
	ListAll(ctx context.Context) ([]Course, error)
	ListPublished(ctx context.Context) ([]Course, error)
}
