package editor

import (
	"errors"
	"fmt"
)

// Editor errors.
var (
	// ErrBufferNotFound indicates no buffer has the requested handle.
	ErrBufferNotFound = errors.New("buffer not found")

	// ErrScratchBuffer indicates an operation that needs a file path was
	// attempted on a scratch buffer.
	ErrScratchBuffer = errors.New("scratch buffer has no path")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // operation name ("open", "save")
	Target string // file path or buffer name
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}
