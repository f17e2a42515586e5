package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/kbukum/extkit/errors"
)

// Point and factory ids: dotted or dashed names such as
// "org.example.renderer" or "osm-tiles".
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// IsIdentifier reports whether s is a well-formed point or factory id.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks over values that have no struct tags,
// such as list entries addressed by index. Every check returns the receiver.
type Validator struct {
	errors []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) fail(field, message string) *Validator {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
	return v
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

// Errors returns the failed checks in order.
func (v *Validator) Errors() []FieldError { return v.errors }

// Validate folds the failed checks into one INVALID_INPUT error, or returns
// nil when all passed.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return invalid(v.errors)
}

// invalid builds the INVALID_INPUT error shared by Validator and Validate.
func invalid(fields []FieldError) *errors.AppError {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + ": " + f.Message
	}
	appErr := errors.Validation(strings.Join(parts, "; "))
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

// Required fails on blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "is required")
	}
	return v
}

// Identifier fails on blank or malformed ids.
func (v *Validator) Identifier(field, value string) *Validator {
	switch {
	case strings.TrimSpace(value) == "":
		return v.fail(field, "is required")
	case !IsIdentifier(value):
		return v.fail(field, "must be a dotted identifier")
	}
	return v
}

// OneOf fails when a non-empty value is outside allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		return v.fail(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return v
}

// Unique fails once per value that repeats.
func (v *Validator) Unique(field string, values []string) *Validator {
	count := make(map[string]int, len(values))
	for _, s := range values {
		if count[s]++; count[s] == 2 {
			v.fail(field, fmt.Sprintf("duplicate value %q", s))
		}
	}
	return v
}

// Custom fails with message unless ok.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		return v.fail(field, message)
	}
	return v
}
