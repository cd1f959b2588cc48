package latestcell

import (
	"errors"
	"fmt"
)

// ErrUnpublished is returned by Fetch before the first Publish has
// completed. It is an expected transient condition, not a fault; callers
// typically retry later.
var ErrUnpublished = errors.New("latestcell: nothing published yet")

// DecodeError reports that the decoder failed on the current generation's
// payload. The failure is not cached against the generation: a subsequent
// Fetch on the same generation retries, and a publish of a well-formed
// payload recovers the cell entirely.
type DecodeError struct {
	Seq   uint64 // generation whose payload failed to decode
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("latestcell: decode of generation %d failed: %v", e.Seq, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }
