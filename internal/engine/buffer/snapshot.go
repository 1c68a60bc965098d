package buffer

import (
	"github.com/dshills/treedit/internal/engine/rope"
)

// Snapshot is a read-only view of a store at a specific revision.
// It is safe for concurrent access and will not change even if the store
// it came from is modified.
type Snapshot struct {
	rope     rope.Rope
	revision RevisionID
}

// String returns the full text.
func (s Snapshot) String() string {
	return s.rope.String()
}

// LenBytes returns the text length in bytes.
func (s Snapshot) LenBytes() ByteOffset {
	return s.rope.Len()
}

// LenChars returns the text length in code points.
func (s Snapshot) LenChars() CharOffset {
	return s.rope.LenChars()
}

// LenLines returns the number of lines. Empty text has one line, and a
// trailing newline starts a final empty line.
func (s Snapshot) LenLines() uint32 {
	return s.rope.LineCount()
}

// IsEmpty returns true if the text is empty.
func (s Snapshot) IsEmpty() bool {
	return s.rope.IsEmpty()
}

// Revision returns the revision this snapshot was taken at.
func (s Snapshot) Revision() RevisionID {
	return s.revision
}

// SliceBytes returns the text in the byte range [start, end).
func (s Snapshot) SliceBytes(start, end ByteOffset) (string, error) {
	if start > end || end > s.rope.Len() {
		return "", outOfRange("slice", "byte", uint64(max(start, end)), uint64(s.rope.Len()))
	}
	if _, err := s.ByteToChar(start); err != nil {
		return "", err
	}
	if _, err := s.ByteToChar(end); err != nil {
		return "", err
	}
	return s.rope.Slice(start, end), nil
}

// SliceChars returns the text in the character range [start, end).
func (s Snapshot) SliceChars(start, end CharOffset) (string, error) {
	if start > end || end > s.rope.LenChars() {
		return "", outOfRange("slice", "char", uint64(max(start, end)), uint64(s.rope.LenChars()))
	}
	bs, _ := s.rope.CharToByte(start)
	be, _ := s.rope.CharToByte(end)
	return s.rope.Slice(bs, be), nil
}

// CharToByte converts a character offset to a byte offset.
func (s Snapshot) CharToByte(c CharOffset) (ByteOffset, error) {
	b, ok := s.rope.CharToByte(c)
	if !ok {
		return 0, outOfRange("char to byte", "char", uint64(c), uint64(s.rope.LenChars()))
	}
	return b, nil
}

// ByteToChar converts a byte offset to a character offset. Offsets inside
// a multi-byte code point are rejected.
func (s Snapshot) ByteToChar(b ByteOffset) (CharOffset, error) {
	if b > s.rope.Len() {
		return 0, outOfRange("byte to char", "byte", uint64(b), uint64(s.rope.Len()))
	}
	c, ok := s.rope.ByteToChar(b)
	if !ok {
		return 0, &BoundaryError{Op: "byte to char", Offset: b}
	}
	return c, nil
}

// LineToChar returns the character offset of the first character of row.
func (s Snapshot) LineToChar(row uint32) (CharOffset, error) {
	c, ok := s.rope.LineToChar(row)
	if !ok {
		return 0, outOfRange("line to char", "line", uint64(row), uint64(s.rope.LineCount()-1))
	}
	return c, nil
}

// CharToLine returns the row containing character offset c. The offset
// just past a newline belongs to the following row.
func (s Snapshot) CharToLine(c CharOffset) (uint32, error) {
	row, ok := s.rope.CharToLine(c)
	if !ok {
		return 0, outOfRange("char to line", "char", uint64(c), uint64(s.rope.LenChars()))
	}
	return row, nil
}

// LineToByte returns the byte offset of the start of row.
func (s Snapshot) LineToByte(row uint32) (ByteOffset, error) {
	b, ok := s.rope.LineToByte(row)
	if !ok {
		return 0, outOfRange("line to byte", "line", uint64(row), uint64(s.rope.LineCount()-1))
	}
	return b, nil
}

// ByteToLine returns the row containing byte offset b.
func (s Snapshot) ByteToLine(b ByteOffset) (uint32, error) {
	row, ok := s.rope.ByteToLine(b)
	if !ok {
		return 0, outOfRange("byte to line", "byte", uint64(b), uint64(s.rope.Len()))
	}
	return row, nil
}

// Line returns a view of row. The view keeps the text it was taken from,
// so it stays valid after later edits to the store.
func (s Snapshot) Line(row uint32) (LineView, error) {
	start, ok := s.rope.LineToByte(row)
	if !ok {
		return LineView{}, outOfRange("line", "line", uint64(row), uint64(s.rope.LineCount()-1))
	}
	end, _ := s.rope.LineEndByte(row)
	return LineView{rope: s.rope, row: row, start: start, end: end}, nil
}
