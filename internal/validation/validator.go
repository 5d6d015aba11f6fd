// Package validation provides request validation using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jdotfite/couchlist/internal/domain"
	domainerrors "github.com/jdotfite/couchlist/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the couchlist enum tags registered:
// list_type, sort_key, sort_direction, pin_type, status and media_type.
// Empty values pass the enum tags; combine with required where needed.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "list_type", func(s string) bool { return domain.ListType(s).Valid() })
	// Sort values are matched the way ParseSortSpec reads them.
	mustRegister(v, "sort_key", func(s string) bool {
		return domain.SortKey(strings.ToLower(strings.TrimSpace(s))).Valid()
	})
	mustRegister(v, "sort_direction", func(s string) bool {
		_, ok := domain.ParseDirection(s)
		return ok
	})
	mustRegister(v, "pin_type", func(s string) bool { return domain.PinType(s).Valid() })
	mustRegister(v, "status", func(s string) bool {
		_, ok := domain.ParseStatus(s)
		return ok
	})
	mustRegister(v, "media_type", func(s string) bool {
		_, ok := domain.ParseMediaType(s)
		return ok
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, valid func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || valid(s)
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gtefield":
		return "must be greater than or equal to " + e.Param()
	case "list_type":
		return "must be one of: manual, smart, hybrid"
	case "sort_key":
		return "must be one of: title, release_year, rating, watched_year, status_updated_at"
	case "sort_direction":
		return "must be one of: asc, desc"
	case "pin_type":
		return "must be one of: include, exclude"
	case "status":
		return "must be a known status"
	case "media_type":
		return "must be one of: movie, show"
	default:
		return "is invalid"
	}
}
