package coord

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/dshills/treedit/internal/engine/buffer"
)

func TestCharToPoint(t *testing.T) {
	s := buffer.FromString("héllo\nwörld\n")

	tests := []struct {
		char CharOffset
		want Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{5, Point{0, 5}},
		{6, Point{1, 0}},
		{11, Point{1, 5}},
		{12, Point{2, 0}},
	}
	for _, tt := range tests {
		got, err := CharToPoint(s, tt.char)
		if err != nil || got != tt.want {
			t.Errorf("CharToPoint(%d) = %v, %v; want %v", tt.char, got, err, tt.want)
		}
		back, err := PointToChar(s, got)
		if err != nil || back != tt.char {
			t.Errorf("PointToChar(%v) = %d, %v; want %d", got, back, err, tt.char)
		}
	}

	if _, err := CharToPoint(s, 13); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("CharToPoint past end = %v", err)
	}
}

func TestPointToCharRejectsLongColumn(t *testing.T) {
	s := buffer.FromString("ab\ncdef")

	_, err := PointToChar(s, Point{Row: 0, Column: 3})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	var colErr *ColumnError
	if !errors.As(err, &colErr) || colErr.LineLen != 2 {
		t.Errorf("unexpected error detail: %v", err)
	}

	if _, err := PointToChar(s, Point{Row: 2, Column: 0}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("row past end = %v", err)
	}

	// Column equal to the line length addresses the newline position.
	c, err := PointToChar(s, Point{Row: 0, Column: 2})
	if err != nil || c != 2 {
		t.Errorf("PointToChar(0:2) = %d, %v", c, err)
	}
}

func TestBytePoints(t *testing.T) {
	s := buffer.FromString("aé\n日x")

	tests := []struct {
		b    ByteOffset
		want BytePoint
		char Point
	}{
		{0, BytePoint{0, 0}, Point{0, 0}},
		{1, BytePoint{0, 1}, Point{0, 1}},
		{3, BytePoint{0, 3}, Point{0, 2}},
		{4, BytePoint{1, 0}, Point{1, 0}},
		{7, BytePoint{1, 3}, Point{1, 1}},
		{8, BytePoint{1, 4}, Point{1, 2}},
	}
	for _, tt := range tests {
		got, err := ByteToPoint(s, tt.b)
		if err != nil || got != tt.want {
			t.Errorf("ByteToPoint(%d) = %v, %v; want %v", tt.b, got, err, tt.want)
			continue
		}
		back, err := PointToByte(s, got)
		if err != nil || back != tt.b {
			t.Errorf("PointToByte(%v) = %d, %v; want %d", got, back, err, tt.b)
		}
		p, err := BytePointToPoint(s, got)
		if err != nil || p != tt.char {
			t.Errorf("BytePointToPoint(%v) = %v, %v; want %v", got, p, err, tt.char)
		}
		bp, err := PointToBytePoint(s, tt.char)
		if err != nil || bp != tt.want {
			t.Errorf("PointToBytePoint(%v) = %v, %v; want %v", tt.char, bp, err, tt.want)
		}
	}

	if _, err := ByteToPoint(s, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("byte inside code point = %v", err)
	}
	if _, err := PointToByte(s, BytePoint{Row: 0, Column: 2}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("byte column inside code point = %v", err)
	}
	if _, err := PointToByte(s, BytePoint{Row: 1, Column: 5}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("byte column past line end = %v", err)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Point
		want int
	}{
		{Point{0, 0}, Point{0, 0}, 0},
		{Point{0, 5}, Point{1, 0}, -1},
		{Point{2, 0}, Point{1, 9}, 1},
		{Point{1, 3}, Point{1, 2}, 1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := (BytePoint(tt.a)).Compare(BytePoint(tt.b)); got != tt.want {
			t.Errorf("byte %v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestInverses checks that every valid char offset survives the round
// trips char -> point -> char and char -> byte point -> point -> char.
func TestInverses(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	alphabet := []rune("xyé日🌍\n\t")
	runes := make([]rune, 300)
	for i := range runes {
		runes[i] = alphabet[rng.Intn(len(alphabet))]
	}
	s := buffer.FromString(string(runes))
	snap := s.Snapshot()

	for c := CharOffset(0); c <= s.LenChars(); c++ {
		p, err := CharToPoint(snap, c)
		if err != nil {
			t.Fatalf("CharToPoint(%d): %v", c, err)
		}
		back, err := PointToChar(snap, p)
		if err != nil || back != c {
			t.Fatalf("PointToChar(%v) = %d, %v; want %d", p, back, err, c)
		}

		bp, err := CharToBytePoint(snap, c)
		if err != nil {
			t.Fatalf("CharToBytePoint(%d): %v", c, err)
		}
		if bp.Row != p.Row {
			t.Fatalf("row mismatch at %d: %v vs %v", c, bp, p)
		}
		p2, err := BytePointToPoint(snap, bp)
		if err != nil || p2 != p {
			t.Fatalf("BytePointToPoint(%v) = %v, %v; want %v", bp, p2, err, p)
		}
	}
}
