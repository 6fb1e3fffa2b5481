package collection

import (
	"errors"
	"reflect"
	"strings"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds a validator that reports JSON field names and
// validates decimal.Decimal fields as numbers
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validationError converts validator errors into a domain validation error
func validationError(err error) *shared.DomainError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return shared.NewValidationError("INVALID_REQUEST", err.Error())
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		parts = append(parts, e.Field()+": "+validationMessage(e))
	}
	return shared.NewValidationError("INVALID_REQUEST", strings.Join(parts, "; "))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	default:
		return "invalid value"
	}
}
