package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError is a single failed struct-tag rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// getValidator returns the shared validator instance. validator.Validate is
// safe for concurrent use once configured.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"mapstructure", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
	})
	return validate
}

// Struct validates s using `validate:"..."` tags. The returned error is a
// *multierror.Error whose entries are *FieldError values, or nil.
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation: %w", err)
	}

	var result *multierror.Error
	for _, e := range validationErrors {
		result = multierror.Append(result, &FieldError{
			Field:   fieldPath(e),
			Message: formatValidationError(e),
		})
	}
	result.ErrorFormat = listFormat
	return result.ErrorOrNil()
}

// Fields extracts the FieldErrors carried by an error returned from Struct.
func Fields(err error) []*FieldError {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return nil
	}
	out := make([]*FieldError, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		if fe, ok := e.(*FieldError); ok {
			out = append(out, fe)
		}
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read as "retry.max_elapsed".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return e.Field()
}

func listFormat(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + e.Param() + " is set"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "excludesall":
		return "must not contain any of: " + e.Param()
	case "json":
		return "must be valid JSON"
	case "printascii":
		return "must contain only printable ASCII"
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
