package rope

import "strings"

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum bytes per chunk (except for the last chunk).
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is an immutable bounded string stored in a leaf, together with its
// precomputed summary. Chunk boundaries always fall on code point
// boundaries.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk from a string.
func NewChunk(s string) Chunk {
	return Chunk{data: s, summary: ComputeSummary(s)}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Split splits a chunk at a byte offset that must be a code point boundary.
func (c Chunk) Split(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// byteOfChar returns the local byte index of the n-th code point.
// n may equal the chunk's char count, which maps to the chunk length.
func (c Chunk) byteOfChar(n CharOffset) int {
	if c.summary.Flags&FlagASCII != 0 {
		return int(n)
	}
	var seen CharOffset
	for i := 0; i < len(c.data); i++ {
		if !isUTF8Start(c.data[i]) {
			continue
		}
		if seen == n {
			return i
		}
		seen++
	}
	return len(c.data)
}

// charsBefore returns the number of code points in data[:local].
func (c Chunk) charsBefore(local int) CharOffset {
	if c.summary.Flags&FlagASCII != 0 {
		return CharOffset(local)
	}
	var n CharOffset
	for i := 0; i < local; i++ {
		if isUTF8Start(c.data[i]) {
			n++
		}
	}
	return n
}

// byteAfterNewline returns the local index just past the n-th newline
// (1-based), or -1 if the chunk has fewer newlines.
func (c Chunk) byteAfterNewline(n uint32) int {
	if n == 0 {
		return 0
	}
	rest := c.data
	consumed := 0
	for ; n > 0; n-- {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			return -1
		}
		consumed += i + 1
		rest = rest[i+1:]
	}
	return consumed
}

// splitIntoChunks splits a string into chunks of appropriate size.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	chunks := make([]Chunk, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		cut := findSplitPoint(s, TargetChunkSize)
		chunks = append(chunks, NewChunk(s[:cut]))
		s = s[cut:]
	}
	if len(s) > 0 {
		chunks = append(chunks, NewChunk(s))
	}
	return chunks
}

// findSplitPoint picks a cut near target, preferring the byte after a
// nearby newline and otherwise the closest code point boundary.
func findSplitPoint(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	window := MinChunkSize / 4
	lo := max(target-window, 1)
	hi := min(target+window, len(s))

	for i := target; i < hi; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= lo; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	cut := target
	for cut > 0 && !isUTF8Start(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = target
		for cut < len(s) && !isUTF8Start(s[cut]) {
			cut++
		}
	}
	return cut
}
