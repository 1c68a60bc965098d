package syntax

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/treedit/internal/engine/coord"
)

// Edit describes one text mutation in the byte coordinates tree-sitter
// expects. Start and old-end positions refer to the text before the
// mutation; the new end refers to the text after it.
type Edit struct {
	StartByte   coord.ByteOffset
	OldEndByte  coord.ByteOffset
	NewEndByte  coord.ByteOffset
	StartPoint  coord.BytePoint
	OldEndPoint coord.BytePoint
	NewEndPoint coord.BytePoint
}

// NewEdit builds the descriptor for replacing the bytes [start, end) of
// old with inserted. old must still hold the pre-mutation text.
func NewEdit(old coord.Text, start, end coord.ByteOffset, inserted string) (Edit, error) {
	if start > end {
		return Edit{}, fmt.Errorf("syntax: edit range [%d, %d): %w", start, end, coord.ErrOutOfRange)
	}
	startPoint, err := coord.ByteToPoint(old, start)
	if err != nil {
		return Edit{}, err
	}
	oldEndPoint, err := coord.ByteToPoint(old, end)
	if err != nil {
		return Edit{}, err
	}

	return Edit{
		StartByte:   start,
		OldEndByte:  end,
		NewEndByte:  start + coord.ByteOffset(len(inserted)),
		StartPoint:  startPoint,
		OldEndPoint: oldEndPoint,
		NewEndPoint: advance(startPoint, inserted),
	}, nil
}

// advance returns the position reached by writing text at p.
func advance(p coord.BytePoint, text string) coord.BytePoint {
	rows := strings.Count(text, "\n")
	if rows == 0 {
		return coord.BytePoint{Row: p.Row, Column: p.Column + uint32(len(text))}
	}
	last := strings.LastIndexByte(text, '\n')
	return coord.BytePoint{Row: p.Row + uint32(rows), Column: uint32(len(text) - last - 1)}
}

func (e Edit) input() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  uint32(e.StartByte),
		OldEndIndex: uint32(e.OldEndByte),
		NewEndIndex: uint32(e.NewEndByte),
		StartPoint:  toSitter(e.StartPoint),
		OldEndPoint: toSitter(e.OldEndPoint),
		NewEndPoint: toSitter(e.NewEndPoint),
	}
}

// String returns a compact description for logs.
func (e Edit) String() string {
	return fmt.Sprintf("edit [%d, %d) -> [%d, %d) %v %v %v",
		e.StartByte, e.OldEndByte, e.StartByte, e.NewEndByte,
		e.StartPoint, e.OldEndPoint, e.NewEndPoint)
}

func toSitter(p coord.BytePoint) sitter.Point {
	return sitter.Point{Row: p.Row, Column: p.Column}
}

// FromSitter converts a tree-sitter point to a byte point.
func FromSitter(p sitter.Point) coord.BytePoint {
	return coord.BytePoint{Row: p.Row, Column: p.Column}
}
