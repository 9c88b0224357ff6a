package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"studio-marketplace/internal/domain"
)

// Up to 8 integer digits and 2 fraction digits, never negative: fits decimal(10,2).
var moneyPattern = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

// Validator checks request payloads before they reach the store.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("portfolio_category", func(fl validator.FieldLevel) bool {
		return domain.IsPortfolioCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		return domain.IsCourseLevel(fl.Field().String())
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return moneyPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return &Validator{validate: v}
}

// Struct returns a *domain.ValidationError when s fails its rules.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domain.ValidationError{Fields: map[string]string{"_": err.Error()}}
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return "must not be empty"
			}
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "portfolio_category":
		return "must be one of " + strings.Join(domain.PortfolioCategories, ", ")
	case "course_level":
		return "must be one of " + strings.Join(domain.CourseLevels, ", ")
	case "money":
		return "must be a non-negative amount with at most 2 decimals"
	default:
		return "failed " + fe.Tag()
	}
}
