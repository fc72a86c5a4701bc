package vision

import "fmt"

// ExtractionError reports that the labeling service could not produce
// features for an image (network, auth, quota or malformed input).
type ExtractionError struct {
	Op  string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("vision extraction failed (%s): %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func extractionErr(op string, err error) error {
	return &ExtractionError{Op: op, Err: err}
}
