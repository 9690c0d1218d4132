package extractor

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by ExtractionError when the parse tree contains errors.
var ErrSyntax = errors.New("syntax errors in source")

// ExtractionError reports a candidate file that could not be turned into facts.
// Callers drop the file from the candidate set and carry on.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
