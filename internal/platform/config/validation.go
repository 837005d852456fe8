package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys so messages name the
// setting as it is written in YAML.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if key := f.Tag.Get("koanf"); key != "" && key != "-" {
			return key
		}

		return f.Name
	})

	return v
}

// Validate reports every invalid field at once. The service refuses to start
// on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	key := formatFieldPath(fe.Namespace())

	var rule string

	switch fe.Tag() {
	case "required":
		rule = "is required"
	case "required_if":
		field, value, _ := strings.Cut(fe.Param(), " ")
		rule = fmt.Sprintf("is required when %s is %s", snake(field), value)
	case "required_with":
		rule = "is required together with " + snake(fe.Param())
	case "min":
		rule = "must be at least " + fe.Param()
	case "max":
		rule = "must be at most " + fe.Param()
	case "oneof":
		rule = "must be one of: " + fe.Param()
	case "url":
		rule = "must be a valid URL"
	default:
		rule = "failed validation: " + fe.Tag()
	}

	return key + " " + rule
}

// formatFieldPath drops the root type from "Config.server.port".
func formatFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return path
}

// snake turns a Go field name used in a rule parameter (TokenURL) into its
// koanf spelling (token_url).
func snake(name string) string {
	runes := []rune(name)

	var b strings.Builder

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
