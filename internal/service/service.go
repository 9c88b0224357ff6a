// Package service holds the application operations. Each method checks the
// access policy, then validates input, then touches the store.
package service

import (
	"time"

	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/core/cache"
	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/payment"
	"studio-marketplace/internal/validator"
)

type Deps struct {
	Store     domain.Store
	Policy    *access.Policy
	Validator *validator.Validator
	// Cache may be nil; listings are then read straight from the store.
	Cache    *cache.Cache
	CacheTTL time.Duration
	Log      *zap.Logger

	Processor payment.Processor
	Currency  string
	// EnrollOn names the confirmation channel that creates enrollments;
	// the other channel only reports the payment state.
	EnrollOn EnrollChannel
}

func (d *Deps) defaults() {
	if d.Policy == nil {
		d.Policy = access.DefaultPolicy()
	}
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = time.Minute
	}
	if d.Currency == "" {
		d.Currency = "usd"
	}
	if d.EnrollOn == "" {
		d.EnrollOn = EnrollOnWebhook
	}
}

// Services bundles every operation group behind one constructor.
type Services struct {
	Users       *UserService
	Portfolio   *PortfolioService
	Courses     *CourseService
	Contacts    *ContactService
	Enrollments *EnrollmentService
	Purchases   *PurchaseService
}

func New(d Deps) *Services {
	d.defaults()
	enrollments := &EnrollmentService{d: d, log: d.Log.Named("enrollment")}
	return &Services{
		Users:       &UserService{d: d, log: d.Log.Named("user")},
		Portfolio:   &PortfolioService{d: d, log: d.Log.Named("portfolio")},
		Courses:     &CourseService{d: d, log: d.Log.Named("course")},
		Contacts:    &ContactService{d: d, log: d.Log.Named("contact")},
		Enrollments: enrollments,
		Purchases:   &PurchaseService{d: d, log: d.Log.Named("purchase"), enrollments: enrollments},
	}
}
