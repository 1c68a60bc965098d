package buffer

import (
	"io"
	"strings"
	"sync/atomic"

	"github.com/dshills/treedit/internal/engine/rope"
)

// ByteOffset is a UTF-8 byte position in the text.
type ByteOffset = rope.ByteOffset

// CharOffset is a position counted in Unicode code points.
type CharOffset = rope.CharOffset

// RevisionID identifies a store revision. Each modification creates a new
// revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// Store is the mutable text of one document, backed by a rope.
//
// Store is not safe for concurrent mutation; its owner serializes access.
// Use Snapshot to hand a consistent read-only view to other goroutines.
type Store struct {
	view
}

// view lets Store embed the read methods of Snapshot while still exposing
// a Snapshot method.
type view = Snapshot

// New creates an empty store.
func New() *Store {
	return &Store{view{rope: rope.New(), revision: NewRevisionID()}}
}

// FromString creates a store holding s with line endings normalized to '\n'.
func FromString(s string) *Store {
	return &Store{view{rope: rope.FromString(NormalizeLineEndings(s)), revision: NewRevisionID()}}
}

// FromReader creates a store from the full contents of r.
func FromReader(r io.Reader) (*Store, error) {
	// CRLF pairs may straddle read boundaries, so normalize after reading everything.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromString(string(data)), nil
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Insert inserts text before character offset c. Inserting at LenChars
// appends.
func (s *Store) Insert(c CharOffset, text string) error {
	at, ok := s.rope.CharToByte(c)
	if !ok {
		return outOfRange("insert", "char", uint64(c), uint64(s.rope.LenChars()))
	}
	if text == "" {
		return nil
	}
	s.rope = s.rope.Insert(at, NormalizeLineEndings(text))
	s.revision = NewRevisionID()
	return nil
}

// Remove deletes the characters in [start, end).
func (s *Store) Remove(start, end CharOffset) error {
	return s.Replace(start, end, "")
}

// Replace replaces the characters in [start, end) with text.
func (s *Store) Replace(start, end CharOffset, text string) error {
	total := s.rope.LenChars()
	if start > end || end > total {
		return outOfRange("replace", "char", uint64(max(start, end)), uint64(total))
	}
	if start == end && text == "" {
		return nil
	}

	bs, _ := s.rope.CharToByte(start)
	be, _ := s.rope.CharToByte(end)
	s.rope = s.rope.Replace(bs, be, NormalizeLineEndings(text))
	s.revision = NewRevisionID()
	return nil
}

// Clone returns an independent store with the same text. Ropes are
// immutable, so this is O(1).
func (s *Store) Clone() *Store {
	return &Store{s.view}
}

// Snapshot returns a read-only view of the current text.
func (s *Store) Snapshot() Snapshot {
	return s.view
}
