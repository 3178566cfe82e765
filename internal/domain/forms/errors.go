package forms

import (
	"errors"
	"fmt"
	"strings"
)

// Field validation failures.
var (
	ErrEmptyLabel     = errors.New("label is required")
	ErrUnknownType    = errors.New("unknown field type")
	ErrMissingOptions = errors.New("choice field needs at least one option")
)

// Form-level validation failures reported by the builder.
var (
	ErrTitleTooShort = errors.New("title must be at least 2 characters")
	ErrSlugTooShort  = errors.New("slug must be at least 2 characters")
	ErrSlugInvalid   = errors.New("slug may only contain lowercase letters, numbers, and hyphens")
	ErrSlugTaken     = errors.New("slug is already in use")
)

var (
	ErrFormNotFound  = errors.New("form not found")
	ErrFormInUse     = errors.New("form has entries and cannot be deleted")
	ErrEntryNotFound = errors.New("form entry not found")

	ErrMissingSubject  = errors.New("please select a mother")
	ErrSubjectNotFound = errors.New("mother not found")
	ErrFieldNotInput   = errors.New("field does not accept input")
	ErrUnknownField    = errors.New("field is not part of this form")
	ErrInvalidChoice   = errors.New("value is not one of the field's options")
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNotReady        = errors.New("form is not ready for input")
)

// FieldError attaches a validation failure to the input it concerns, e.g.
// "title", "slug", or a field id.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// InvalidFieldError is returned by Draft.AddField. The draft is unchanged.
type InvalidFieldError struct {
	Err error
}

func (e *InvalidFieldError) Error() string { return "invalid field: " + e.Err.Error() }
func (e *InvalidFieldError) Unwrap() error { return e.Err }

// ValidationFailedError aggregates every problem found when submitting a draft.
type ValidationFailedError struct {
	Problems []*FieldError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is lets errors.Is match any of the aggregated causes.
func (e *ValidationFailedError) Is(target error) bool {
	for _, p := range e.Problems {
		if errors.Is(p.Err, target) {
			return true
		}
	}
	return false
}

// PersistenceError wraps a storage failure. The caller may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// RequiredFieldMissingError names the first required input, in form order,
// that has no answer.
type RequiredFieldMissingError struct {
	FieldID string
	Label   string
}

func (e *RequiredFieldMissingError) Error() string {
	return fmt.Sprintf("required field %q (%s) is missing", e.Label, e.FieldID)
}
