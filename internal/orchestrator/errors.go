package orchestrator

import "fmt"

// ValidationError marks a malformed payload: caller fault, 4xx.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PreconditionError marks an operation attempted before the session is
// in a state that supports it (chat or practice before any ingestion):
// caller fault, 4xx.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
