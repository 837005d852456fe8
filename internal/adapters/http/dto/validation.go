package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

var (
	// ErrValidation marks a request that decoded but broke a field rule.
	ErrValidation = errors.New("validation failed")

	// ErrBinding marks a body or query string that could not be decoded.
	ErrBinding = errors.New("binding failed")
)

// Request-specific tags, on top of the validator built-ins:
//
//	id          a UUID in any case; empty passes, pair with required
//	countrycode two ASCII letters (ISO 3166-1 alpha-2)
//	langcode    two ASCII letters (ISO 639-1)
//	notblank    not empty after trimming whitespace
var customTags = map[string]validator.Func{
	"id":          isUUID,
	"countrycode": isTwoLetterCode,
	"langcode":    isTwoLetterCode,
	"notblank":    isNotBlank,
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field errors are reported under
// their JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			return name
		})

		for tag, fn := range customTags {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("registering %q validation: %v", tag, err))
			}
		}

		validate = v
	})

	return validate
}

// Validate checks the struct tags of v.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// Validatable is implemented by requests with rules that span fields.
type Validatable interface {
	Validate() error
}

// ValidateAll checks the struct tags and then, when v implements
// Validatable, its own rules.
func ValidateAll(v any) error {
	if err := Validate(v); err != nil {
		return err
	}

	if rv, ok := v.(Validatable); ok {
		if err := rv.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// IsValidationError reports whether err failed validation, as opposed to
// binding.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// ValidationErrors maps JSON field names to messages, from either validator
// field errors or a domain.ValidationError raised by Validatable.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			out[fe.Field()] = fieldMessage(fe)
		}

		return out
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) && domainErr.Field != "" {
		out[domainErr.Field] = domainErr.Message
	}

	return out
}

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "id", "uuid":
		return "must be a valid UUID"
	case "countrycode":
		return "must be a two-letter ISO 3166-1 country code"
	case "langcode":
		return "must be a two-letter ISO 639-1 language code"
	case "notblank":
		return "must not be blank"
	case "len":
		return "must be exactly " + fe.Param() + unit
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation: " + fe.Tag()
	}
}

func isUUID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	return uuid.Validate(s) == nil
}

func isTwoLetterCode(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 2 {
		return false
	}

	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}

	return true
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
