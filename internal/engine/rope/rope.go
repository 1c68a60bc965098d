package rope

import "strings"

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode(nil)}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}

	chunks := splitIntoChunks(s)
	leaves := make([]*Node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		group := make([]Chunk, end-i)
		copy(group, chunks[i:end])
		leaves = append(leaves, newLeafNode(group))
	}
	return Rope{root: buildNodeFromChildren(leaves)}
}

func (r Rope) summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	return r.summary()
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	return r.summary().Bytes
}

// LenChars returns the total number of code points.
func (r Rope) LenChars() CharOffset {
	return r.summary().Chars
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	return r.summary().Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text as a string.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end), clamped to the rope.
func (r Rope) Slice(start, end ByteOffset) string {
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Insert inserts text at the given byte offset, which must be a code point
// boundary. Offsets past the end append.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.IsEmpty() {
		return FromString(text)
	}
	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes text in the byte range [start, end), clamped to the rope.
func (r Rope) Delete(start, end ByteOffset) Rope {
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return r
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces the byte range [start, end) with text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	return r.Delete(start, end).Insert(start, text)
}

// Split splits the rope at offset into [0, offset) and [offset, Len()).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	if r.root == nil || offset == 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Coordinate conversion. Each conversion is one descent from the root.

// CharToByte returns the byte offset of the given code point offset.
// ok is false if c exceeds LenChars.
func (r Rope) CharToByte(c CharOffset) (ByteOffset, bool) {
	total := r.summary()
	if c > total.Chars {
		return 0, false
	}
	if c == total.Chars {
		return total.Bytes, true
	}
	if total.Flags&FlagASCII != 0 {
		return ByteOffset(c), true
	}

	chunk, before, ok := r.root.seek(func(b, s TextSummary) bool {
		return b.Chars+s.Chars > c
	})
	if !ok {
		return 0, false
	}
	return before.Bytes + ByteOffset(chunk.byteOfChar(c-before.Chars)), true
}

// ByteToChar returns the code point offset of a byte offset.
// ok is false if b exceeds Len or falls inside a multi-byte sequence.
func (r Rope) ByteToChar(b ByteOffset) (CharOffset, bool) {
	total := r.summary()
	if b > total.Bytes {
		return 0, false
	}
	if b == total.Bytes {
		return total.Chars, true
	}
	if total.Flags&FlagASCII != 0 {
		return CharOffset(b), true
	}

	chunk, before, ok := r.root.seek(func(p, s TextSummary) bool {
		return p.Bytes+s.Bytes > b
	})
	if !ok {
		return 0, false
	}
	local := int(b - before.Bytes)
	if !isUTF8Start(chunk.data[local]) {
		return 0, false
	}
	return before.Chars + chunk.charsBefore(local), true
}

// LineToByte returns the byte offset where the given 0-indexed line starts.
// ok is false if line >= LineCount.
func (r Rope) LineToByte(line uint32) (ByteOffset, bool) {
	total := r.summary()
	if line > total.Lines {
		return 0, false
	}
	if line == 0 {
		return 0, true
	}

	chunk, before, ok := r.root.seek(func(p, s TextSummary) bool {
		return p.Lines+s.Lines >= line
	})
	if !ok {
		return 0, false
	}
	local := chunk.byteAfterNewline(line - before.Lines)
	if local < 0 {
		return 0, false
	}
	return before.Bytes + ByteOffset(local), true
}

// ByteToLine returns the 0-indexed line containing byte offset b.
// An offset just past a newline belongs to the following line.
func (r Rope) ByteToLine(b ByteOffset) (uint32, bool) {
	total := r.summary()
	if b > total.Bytes {
		return 0, false
	}
	if b == total.Bytes {
		return total.Lines, true
	}
	if total.Flags&FlagHasNewlines == 0 {
		return 0, true
	}

	chunk, before, ok := r.root.seek(func(p, s TextSummary) bool {
		return p.Bytes+s.Bytes > b
	})
	if !ok {
		return 0, false
	}
	return before.Lines + CountLines(chunk.data[:b-before.Bytes]), true
}

// LineToChar returns the code point offset where the given line starts.
func (r Rope) LineToChar(line uint32) (CharOffset, bool) {
	b, ok := r.LineToByte(line)
	if !ok {
		return 0, false
	}
	return r.ByteToChar(b)
}

// CharToLine returns the 0-indexed line containing code point offset c.
func (r Rope) CharToLine(c CharOffset) (uint32, bool) {
	b, ok := r.CharToByte(c)
	if !ok {
		return 0, false
	}
	return r.ByteToLine(b)
}

// LineEndByte returns the byte offset of the end of a line, excluding its
// newline.
func (r Rope) LineEndByte(line uint32) (ByteOffset, bool) {
	total := r.summary()
	if line > total.Lines {
		return 0, false
	}
	if line == total.Lines {
		return total.Bytes, true
	}
	next, ok := r.LineToByte(line + 1)
	if !ok {
		return 0, false
	}
	return next - 1, true
}

// LineText returns the text of a line without its newline, or "" if the
// line does not exist.
func (r Rope) LineText(line uint32) string {
	start, ok := r.LineToByte(line)
	if !ok {
		return ""
	}
	end, _ := r.LineEndByte(line)
	return r.Slice(start, end)
}

// Height returns the height of the rope tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

// Equals returns true if two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.summary() != other.summary() {
		return false
	}
	return r.String() == other.String()
}
