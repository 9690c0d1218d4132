package frame

import (
	"errors"
	"fmt"
)

// ErrMalformedFrame is wrapped by every AdapterError.
var ErrMalformedFrame = errors.New("malformed frame")

// AdapterError reports frame info that cannot be normalized into a descriptor.
type AdapterError struct {
	Field  string
	Reason string
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrMalformedFrame, e.Field, e.Reason)
}

func (e *AdapterError) Unwrap() error {
	return ErrMalformedFrame
}

func fieldError(field, format string, args ...any) error {
	return &AdapterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
