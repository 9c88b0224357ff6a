package domain

import (
	"context"
	"time"
)

type User struct {
	ID                    string    `gorm:"primaryKey;size:191" json:"id"`
	Email                 string    `gorm:"uniqueIndex;size:191" json:"email"`
	FirstName             string    `gorm:"size:100" json:"firstName"`
	LastName              string    `gorm:"size:100" json:"lastName"`
	ProfileImageURL       string    `gorm:"size:500" json:"profileImageUrl"`
	IsAdmin               bool      `gorm:"not null;default:false" json:"isAdmin"`
	PaymentCustomerID     string    `gorm:"size:191" json:"paymentCustomerId,omitempty"`
	PaymentSubscriptionID string    `gorm:"size:191" json:"paymentSubscriptionId,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserProfile is what the identity provider asserts on login.
type UserProfile struct {
	ID              string `json:"id" validate:"required,max=191"`
	Email           string `json:"email" validate:"required,email,max=191"`
	FirstName       string `json:"firstName" validate:"max=100"`
	LastName        string `json:"lastName" validate:"max=100"`
	ProfileImageURL string `json:"profileImageUrl" validate:"max=500"`
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	Upsert(ctx context.Context, p UserProfile) (*User, error)
	UpdatePaymentInfo(ctx context.Context, id, customerID string, subscriptionID *string) (*User, error)
	SetAdmin(ctx context.Context, id string, admin bool) (*User, error)
}
