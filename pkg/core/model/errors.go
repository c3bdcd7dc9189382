package model

import (
	"fmt"
	"strings"
)

// Issue is a single problem found while validating input
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationError reports malformed input. It is always returned before a search starts.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "invalid scheduling input: " + strings.Join(parts, "; ")
}

// Add records an issue
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// OrNil returns nil when no issues were recorded
func (e *ValidationError) OrNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a ValidationError with one issue
func NewValidationError(field, format string, args ...any) *ValidationError {
	v := &ValidationError{}
	v.Add(field, format, args...)
	return v
}

// InvariantViolation means a hard rule was broken by the search itself.
// It indicates a bug and is never expected for valid input.
type InvariantViolation struct {
	Rule       string
	EmployeeID string
	ShiftID    string
	Detail     string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s violated (employee=%q shift=%q): %s", e.Rule, e.EmployeeID, e.ShiftID, e.Detail)
}
