// Package coord converts between the coordinate systems of a text:
// character offsets, byte offsets, (row, character column) points and
// (row, byte column) points.
//
// Each coordinate kind has its own type so units cannot be mixed by
// accident. Conversions validate their input and never clamp; invalid
// input yields an error matching ErrOutOfRange.
package coord

import (
	"fmt"

	"github.com/dshills/treedit/internal/engine/buffer"
)

// CharOffset is an absolute position in code points.
type CharOffset = buffer.CharOffset

// ByteOffset is an absolute position in UTF-8 bytes.
type ByteOffset = buffer.ByteOffset

// ErrOutOfRange is returned for coordinates outside the text.
var ErrOutOfRange = buffer.ErrOutOfRange

// Point is a 0-indexed row and a column counted in characters.
type Point struct {
	Row    uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	return compare(p.Row, p.Column, other.Row, other.Column)
}

// BytePoint is a 0-indexed row and a column counted in bytes, the form
// parsers expect.
type BytePoint struct {
	Row    uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p BytePoint) String() string {
	return fmt.Sprintf("(%d:%db)", p.Row, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p BytePoint) Compare(other BytePoint) int {
	return compare(p.Row, p.Column, other.Row, other.Column)
}

func compare(row, col, otherRow, otherCol uint32) int {
	switch {
	case row < otherRow:
		return -1
	case row > otherRow:
		return 1
	case col < otherCol:
		return -1
	case col > otherCol:
		return 1
	}
	return 0
}

// Text is the read surface conversions need. *buffer.Store and
// buffer.Snapshot implement it.
type Text interface {
	CharToByte(c CharOffset) (ByteOffset, error)
	ByteToChar(b ByteOffset) (CharOffset, error)
	LineToChar(row uint32) (CharOffset, error)
	CharToLine(c CharOffset) (uint32, error)
	LineToByte(row uint32) (ByteOffset, error)
	ByteToLine(b ByteOffset) (uint32, error)
	Line(row uint32) (buffer.LineView, error)
}

// ColumnError reports a column past the end of its line.
// It matches ErrOutOfRange.
type ColumnError struct {
	Row     uint32
	Column  uint32
	LineLen int
	Unit    string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("coord: %s column %d past end of row %d (length %d)", e.Unit, e.Column, e.Row, e.LineLen)
}

// Unwrap returns ErrOutOfRange.
func (e *ColumnError) Unwrap() error {
	return ErrOutOfRange
}

// CharToPoint converts a character offset to a point.
func CharToPoint(t Text, c CharOffset) (Point, error) {
	row, err := t.CharToLine(c)
	if err != nil {
		return Point{}, err
	}
	start, err := t.LineToChar(row)
	if err != nil {
		return Point{}, err
	}
	return Point{Row: row, Column: uint32(c - start)}, nil
}

// PointToChar converts a point to a character offset. A column past the
// end of the row is an error, not clamped to the row end.
func PointToChar(t Text, p Point) (CharOffset, error) {
	line, err := t.Line(p.Row)
	if err != nil {
		return 0, err
	}
	if n := line.LenChars(); int(p.Column) > n {
		return 0, &ColumnError{Row: p.Row, Column: p.Column, LineLen: n, Unit: "char"}
	}
	start, err := t.LineToChar(p.Row)
	if err != nil {
		return 0, err
	}
	return start + CharOffset(p.Column), nil
}

// ByteToPoint converts a byte offset to a byte point. Offsets inside a
// multi-byte code point are rejected.
func ByteToPoint(t Text, b ByteOffset) (BytePoint, error) {
	if _, err := t.ByteToChar(b); err != nil {
		return BytePoint{}, err
	}
	row, err := t.ByteToLine(b)
	if err != nil {
		return BytePoint{}, err
	}
	start, err := t.LineToByte(row)
	if err != nil {
		return BytePoint{}, err
	}
	return BytePoint{Row: row, Column: uint32(b - start)}, nil
}

// PointToByte converts a byte point to a byte offset.
func PointToByte(t Text, p BytePoint) (ByteOffset, error) {
	line, err := t.Line(p.Row)
	if err != nil {
		return 0, err
	}
	if n := line.LenBytes(); int(p.Column) > n {
		return 0, &ColumnError{Row: p.Row, Column: p.Column, LineLen: n, Unit: "byte"}
	}
	b := line.StartByte() + ByteOffset(p.Column)
	if _, err := t.ByteToChar(b); err != nil {
		return 0, err
	}
	return b, nil
}

// PointToBytePoint converts a character-column point to a byte-column point.
func PointToBytePoint(t Text, p Point) (BytePoint, error) {
	c, err := PointToChar(t, p)
	if err != nil {
		return BytePoint{}, err
	}
	b, err := t.CharToByte(c)
	if err != nil {
		return BytePoint{}, err
	}
	start, err := t.LineToByte(p.Row)
	if err != nil {
		return BytePoint{}, err
	}
	return BytePoint{Row: p.Row, Column: uint32(b - start)}, nil
}

// BytePointToPoint converts a byte-column point to a character-column point.
func BytePointToPoint(t Text, p BytePoint) (Point, error) {
	b, err := PointToByte(t, p)
	if err != nil {
		return Point{}, err
	}
	c, err := t.ByteToChar(b)
	if err != nil {
		return Point{}, err
	}
	start, err := t.LineToChar(p.Row)
	if err != nil {
		return Point{}, err
	}
	return Point{Row: p.Row, Column: uint32(c - start)}, nil
}

// CharToBytePoint converts a character offset directly to a byte point.
func CharToBytePoint(t Text, c CharOffset) (BytePoint, error) {
	b, err := t.CharToByte(c)
	if err != nil {
		return BytePoint{}, err
	}
	return ByteToPoint(t, b)
}
