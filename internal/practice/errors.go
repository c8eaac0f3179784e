package practice

import (
	"errors"
	"fmt"
)

// ErrImport is returned when an import payload is not a list of records.
var ErrImport = errors.New("import failed: data is not a list of practice records")

// ParseError reports a persisted history blob that could not be decoded.
// Readers recover from it by treating the history as empty.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a practice submission that is missing a required
// field. Message is suitable for showing to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
