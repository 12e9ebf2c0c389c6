package apperr

import (
	"errors"
	"fmt"
)

// ErrFormatViolation is matched by every rejection produced while checking an input.
var ErrFormatViolation = errors.New("format violation")

// FormatViolation reports the first point where an input deviates from its grammar.
// Offset and Reason are diagnostics only; any FormatViolation means the input is rejected.
type FormatViolation struct {
	Offset int
	Rule   string
	Reason string
}

func (e *FormatViolation) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("format violation at byte %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("format violation at byte %d (%s): %s", e.Offset, e.Rule, e.Reason)
}

func (e *FormatViolation) Unwrap() error {
	return ErrFormatViolation
}

func NewFormatViolation(offset int, rule, reason string) *FormatViolation {
	return &FormatViolation{Offset: offset, Rule: rule, Reason: reason}
}

// IsFormatViolation reports whether err is, or wraps, a rejection.
func IsFormatViolation(err error) bool {
	return errors.Is(err, ErrFormatViolation)
}

// ValidationError reports a malformed request or grammar definition.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError reports an unknown named resource, such as a grammar.
type NotFoundError struct {
	Kind        string
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(", did you mean %q?", e.Suggestions[0])
	}
	return msg
}
