package ranking

import (
	"errors"
	"fmt"
)

// ErrNoCandidates is wrapped by NoCandidatesError.
var ErrNoCandidates = errors.New("no candidate files")

// NoCandidatesError reports a ranking request with an empty candidate set.
type NoCandidatesError struct {
	BinaryClassName string
}

func (e *NoCandidatesError) Error() string {
	if e.BinaryClassName == "" {
		return ErrNoCandidates.Error()
	}
	return fmt.Sprintf("%v for %s", ErrNoCandidates, e.BinaryClassName)
}

func (e *NoCandidatesError) Unwrap() error {
	return ErrNoCandidates
}
