// Package validation checks operation inputs against their declared rules and
// reports every violation at once.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\- ]{6,20}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

// Ruler is implemented by inputs with rules that span several fields
type Ruler interface {
	Rules() []apperror.FieldError
}

// Result is either a valid payload or the list of violations found in it
type Result[T any] struct {
	value  T
	errors []apperror.FieldError
}

// OK reports whether the payload passed every rule
func (r Result[T]) OK() bool {
	return len(r.errors) == 0
}

// Value returns the checked payload
func (r Result[T]) Value() T {
	return r.value
}

// Errors returns all violations
func (r Result[T]) Errors() []apperror.FieldError {
	return r.errors
}

// Err returns an invalid-argument error carrying every violation, or nil
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return apperror.NewInvalidArgument(r.errors)
}

// Check runs the struct tags of v and then its cross-field rules
func Check[T any](v T) Result[T] {
	var errs []apperror.FieldError

	// values without struct tags have nothing to check
	var invalid *validator.InvalidValidationError
	if err := engine().Struct(v); err != nil && !errors.As(err, &invalid) {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs = append(errs, apperror.FieldError{Message: err.Error()})
		}
		for _, fe := range verrs {
			errs = append(errs, apperror.FieldError{Field: fieldPath(fe), Message: message(fe)})
		}
	}

	if r, ok := any(v).(Ruler); ok {
		errs = append(errs, r.Rules()...)
	}

	return Result[T]{value: v, errors: errs}
}

// IsPhone reports whether s looks like a phone number
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// fieldPath drops the root struct name: "CreateSaleInput.lines[0].price" becomes "lines[0].price"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "email":
		return "must be a valid email"
	case "phone":
		return "must be a valid phone number"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Array {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "ne":
		return "must not be " + fe.Param()
	default:
		return "is invalid"
	}
}
