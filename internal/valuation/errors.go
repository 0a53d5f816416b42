package valuation

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is returned when no model artifact is loaded. The
// estimator never substitutes a guessed value.
var ErrModelUnavailable = errors.New("model artifact is not loaded")

// ErrEmptyBatch is returned for a batch request with no records.
var ErrEmptyBatch = errors.New("no properties provided")

// BatchSizeError reports a batch that exceeds the configured cap. The batch
// is rejected before any estimation occurs.
type BatchSizeError struct {
	Size int
	Max  int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("batch of %d properties exceeds the maximum of %d", e.Size, e.Max)
}
