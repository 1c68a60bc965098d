package editor

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/treedit/internal/engine/document"
)

// Buffer is a registry entry: a document plus the file it came from.
type Buffer struct {
	// ID is the stable handle of the buffer.
	ID uuid.UUID

	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Doc is the document. It is shared by every pane showing the buffer.
	Doc *document.Document

	modified atomic.Bool
}

// Name returns the display name.
func (b *Buffer) Name() string {
	return b.Doc.Name()
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (b *Buffer) IsScratch() bool {
	return b.Path == ""
}

// IsModified returns true if the buffer has unsaved changes.
func (b *Buffer) IsModified() bool {
	return b.modified.Load()
}

// SetModified sets the modified flag.
func (b *Buffer) SetModified(modified bool) {
	b.modified.Store(modified)
}
