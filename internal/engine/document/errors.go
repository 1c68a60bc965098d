package document

import (
	"fmt"

	"github.com/dshills/treedit/internal/engine/buffer"
)

// ErrOutOfRange is returned for positions outside the document. It is the
// same sentinel the buffer and coord packages use.
var ErrOutOfRange = buffer.ErrOutOfRange

// EditError reports an edit range outside the document. It matches
// ErrOutOfRange.
type EditError struct {
	Start, End CharOffset
	Len        CharOffset
}

func (e *EditError) Error() string {
	return fmt.Sprintf("document: edit [%d, %d) outside text of %d chars", e.Start, e.End, e.Len)
}

// Unwrap returns ErrOutOfRange.
func (e *EditError) Unwrap() error {
	return ErrOutOfRange
}
