package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studio-marketplace/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// FindByID returns nil, nil when the user does not exist.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("user.find", err)
	}
	return &u, nil
}

// Upsert inserts the profile or overwrites the profile columns of an existing row.
// Admin flag and payment references are never touched here.
func (r *UserRepo) Upsert(ctx context.Context, p domain.UserProfile) (*domain.User, error) {
	u := domain.User{
		ID:              p.ID,
		Email:           p.Email,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		ProfileImageURL: p.ProfileImageURL,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "profile_image_url", "updated_at",
		}),
	}).Create(&u).Error
	if err != nil {
		return nil, domain.StorageError("user.upsert", err)
	}
	return r.mustFind(ctx, p.ID)
}

func (r *UserRepo) UpdatePaymentInfo(ctx context.Context, id, customerID string, subscriptionID *string) (*domain.User, error) {
	cols := map[string]any{
		"payment_customer_id": customerID,
		"updated_at":          time.Now(),
	}
	if subscriptionID != nil {
		cols["payment_subscription_id"] = *subscriptionID
	}
	return r.update(ctx, id, cols, "user.payment_info")
}

func (r *UserRepo) SetAdmin(ctx context.Context, id string, admin bool) (*domain.User, error) {
	return r.update(ctx, id, map[string]any{"is_admin": admin, "updated_at": time.Now()}, "user.set_admin")
}

func (r *UserRepo) update(ctx context.Context, id string, cols map[string]any, op string) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, domain.StorageError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound("user")
	}
	return r.mustFind(ctx, id)
}

func (r *UserRepo) mustFind(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user")
	}
	return u, nil
}
