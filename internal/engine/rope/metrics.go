package rope

import "unicode/utf8"

// ByteOffset is an absolute UTF-8 byte position in a rope.
type ByteOffset uint64

// CharOffset is an absolute position counted in Unicode code points.
type CharOffset uint64

// TextSummary holds aggregated metrics for a span of text.
// Summaries form a monoid under Add, which lets internal nodes answer
// prefix queries without touching leaf text.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes ByteOffset

	// Chars is the code point count.
	Chars CharOffset

	// Lines is the number of newline characters.
	Lines uint32

	// Flags describe properties that enable fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates every byte is < 0x80, so bytes and chars coincide.
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains at least one '\n'.
	FlagHasNewlines
)

// Add combines two adjacent summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	flags := s.Flags & other.Flags & FlagASCII
	if (s.Flags|other.Flags)&FlagHasNewlines != 0 {
		flags |= FlagHasNewlines
	}

	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: flags,
	}
}

// IsZero returns true if the summary describes empty text.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: ByteOffset(len(s)), Flags: FlagASCII}
	if len(s) == 0 {
		return sum
	}

	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= utf8.RuneSelf {
			sum.Flags &^= FlagASCII
		}
		if b == '\n' {
			sum.Lines++
		}
		if isUTF8Start(b) {
			sum.Chars++
		}
	}
	if sum.Lines > 0 {
		sum.Flags |= FlagHasNewlines
	}
	return sum
}

// CountLines returns the number of newlines in a string.
func CountLines(s string) uint32 {
	var count uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
		}
	}
	return count
}

// isUTF8Start returns true if b begins a UTF-8 sequence (is not a
// continuation byte of the form 10xxxxxx).
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}
