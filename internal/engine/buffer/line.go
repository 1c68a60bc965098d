package buffer

import "github.com/dshills/treedit/internal/engine/rope"

// LineView is a lazily sliced line of text, excluding its newline.
type LineView struct {
	rope       rope.Rope
	row        uint32
	start, end ByteOffset
}

// Row returns the 0-indexed row of the line.
func (l LineView) Row() uint32 {
	return l.row
}

// StartByte returns the byte offset of the first byte of the line.
func (l LineView) StartByte() ByteOffset {
	return l.start
}

// EndByte returns the byte offset just before the line's newline.
func (l LineView) EndByte() ByteOffset {
	return l.end
}

// LenBytes returns the line length in bytes.
func (l LineView) LenBytes() int {
	return int(l.end - l.start)
}

// LenChars returns the line length in code points.
func (l LineView) LenChars() int {
	s, _ := l.rope.ByteToChar(l.start)
	e, _ := l.rope.ByteToChar(l.end)
	return int(e - s)
}

// String returns the line text.
func (l LineView) String() string {
	return l.rope.Slice(l.start, l.end)
}
