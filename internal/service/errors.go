package service

import (
	"fmt"
	"time"
)

// ValidationError reports malformed input. Never retried automatically.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// WeekRestrictionError rejects a reschedule whose target date falls outside
// the Sunday-Saturday week of the source date.
type WeekRestrictionError struct {
	From time.Time
	To   time.Time
}

func (e *WeekRestrictionError) Error() string {
	return fmt.Sprintf(
		"cannot move exercise from %s to %s: target date is outside the current week",
		e.From.Format("2006-01-02"), e.To.Format("2006-01-02"),
	)
}

// NotFoundError reports that a referenced entity no longer exists.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError is raised when a plan is activated over detected overlapping
// dated plans without the caller forcing the activation.
type ConflictError struct {
	Report *ConflictReport
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("plan dates overlap %d existing plan(s)", len(e.Report.Conflicts))
}

// PersistenceError wraps a failed store operation. The core never retries;
// the caller may retry the whole operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
