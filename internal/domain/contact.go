package domain

import (
	"context"
	"time"
)

type ContactSubmission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"firstName"`
	LastName    string    `gorm:"size:100;not null" json:"lastName"`
	Email       string    `gorm:"size:255;not null" json:"email"`
	ProjectType string    `gorm:"size:100" json:"projectType"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	SubmittedAt time.Time `gorm:"autoCreateTime;index" json:"submittedAt"`
	Responded   bool      `gorm:"not null;default:false" json:"responded"`
}

func (ContactSubmission) TableName() string { return "contact_submissions" }

type ContactInput struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	ProjectType string `json:"projectType" validate:"max=100"`
	Message     string `json:"message" validate:"required"`
}

func (in ContactInput) Model() *ContactSubmission {
	return &ContactSubmission{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		ProjectType: in.ProjectType,
		Message:     in.Message,
	}
}

type ContactRepository interface {
	Create(ctx context.Context, s *ContactSubmission) error
	ListAll(ctx context.Context) ([]ContactSubmission, error)
	MarkResponded(ctx context.Context, id uint) error
}
