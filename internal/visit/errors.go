package visit

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. No record is created or changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid visit: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports an unknown visit, task, or catalog id.
type NotFoundError struct {
	Kind string // "visit", "task", "store", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidTransitionError reports a lifecycle action attempted from a state
// that does not allow it. The visit is left unchanged.
type InvalidTransitionError struct {
	VisitID string
	Action  Action
	From    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s visit %s: visit is %s", e.Action, e.VisitID, e.From)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is (or wraps) a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidTransition reports whether err is (or wraps) an *InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
