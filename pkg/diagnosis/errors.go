package diagnosis

import (
	"errors"
	"fmt"
)

type ValidationKind string

const (
	KindEmptyResult  ValidationKind = "empty_result"
	KindMissingField ValidationKind = "missing_field"
	KindInvalidEnum  ValidationKind = "invalid_enum"
	KindInvalidType  ValidationKind = "invalid_type"
)

var (
	ErrEmptyResult  = &ValidationError{Kind: KindEmptyResult}
	ErrMissingField = &ValidationError{Kind: KindMissingField}
	ErrInvalidEnum  = &ValidationError{Kind: KindInvalidEnum}
	ErrInvalidType  = &ValidationError{Kind: KindInvalidType}
)

var (
	ErrNoSymptoms      = errors.New("at least one symptom is required")
	ErrInvalidSeverity = errors.New("severity must be one of mild, moderate, severe")
	ErrOutOfRange      = errors.New("rank is not among the current candidates")
)

// ValidationError reports why a completion payload could not be normalized.
// Index is the offending element of diagnoses, -1 for the envelope itself.
type ValidationError struct {
	Kind  ValidationKind
	Index int
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("invalid diagnosis payload: %s", e.Kind)
	case e.Index < 0:
		return fmt.Sprintf("invalid diagnosis payload: %s %q", e.Kind, e.Field)
	case e.Value != "":
		return fmt.Sprintf("invalid diagnosis payload: %s %q=%q at diagnoses[%d]", e.Kind, e.Field, e.Value, e.Index)
	default:
		return fmt.Sprintf("invalid diagnosis payload: %s %q at diagnoses[%d]", e.Kind, e.Field, e.Index)
	}
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
