package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the current state
	ErrInvalidTransition = errors.New("operation not allowed in the current checkout state")
	// ErrClosed is returned for any operation on a closed workflow
	ErrClosed = errors.New("checkout is closed")
	// ErrAvailabilityNotLoaded is returned when a start date is chosen before availability was loaded
	ErrAvailabilityNotLoaded = errors.New("availability has not been loaded")
	// ErrDateUnavailable is returned for start dates outside the valid starts
	ErrDateUnavailable = errors.New("start date is not available")
	// ErrNoStartDate is returned when submitting without a chosen start date
	ErrNoStartDate = errors.New("no start date selected")
)

// ValidationError maps field names to problems found before any network call
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// SubmissionError is a recoverable booking sink failure. The workflow stays in the calendar step.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to submit booking: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
