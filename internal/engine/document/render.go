package document

import (
	"fmt"

	"github.com/dshills/treedit/internal/engine/buffer"
	"github.com/dshills/treedit/internal/renderer/highlight"
)

// Line is one rendered line of a document.
type Line struct {
	Row   uint32
	Spans []Span
}

// Text returns the concatenated text of the line's spans.
func (l Line) Text() string {
	return highlight.Join(l.Spans)
}

// Plain reports whether no span of the line is tagged.
func (l Line) Plain() bool {
	for _, s := range l.Spans {
		if !s.IsPlain() {
			return false
		}
	}
	return true
}

// RenderRange returns up to height lines starting at startRow. With a
// grammar attached the lines carry highlighter spans; otherwise each line
// is a single plain span. Empty lines have no spans.
func (d *Document) RenderRange(startRow, height uint32) ([]Line, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.render(startRow, height, func(l buffer.LineView) (ByteOffset, ByteOffset) {
		return l.StartByte(), l.EndByte()
	})
}

// RenderView is RenderRange restricted to the character columns
// [colOffset, colOffset+width) of each line.
func (d *Document) RenderView(startRow, height, colOffset, width uint32) ([]Line, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.render(startRow, height, func(l buffer.LineView) (ByteOffset, ByteOffset) {
		first, _ := d.store.ByteToChar(l.StartByte())
		n := uint32(l.LenChars())
		off := min(colOffset, n)
		w := min(width, n-off)
		s, _ := d.store.CharToByte(first + CharOffset(off))
		e, _ := d.store.CharToByte(first + CharOffset(off+w))
		return s, e
	})
}

func (d *Document) render(startRow, height uint32, window func(buffer.LineView) (ByteOffset, ByteOffset)) ([]Line, error) {
	total := d.store.LenLines()
	if startRow >= total {
		return nil, fmt.Errorf("document: render from row %d of %d: %w", startRow, total, ErrOutOfRange)
	}
	last := min(uint64(startRow)+uint64(height), uint64(total))

	lines := make([]Line, 0, last-uint64(startRow))
	for row := startRow; uint64(row) < last; row++ {
		lv, err := d.store.Line(row)
		if err != nil {
			return nil, err
		}
		start, end := window(lv)
		spans, err := d.highlight(start, end)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Row: row, Spans: spans})
	}
	return lines, nil
}

// HighlightRange returns the spans covering the bytes [start, end).
func (d *Document) HighlightRange(start, end ByteOffset) ([]Span, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if start > end {
		return nil, fmt.Errorf("document: highlight [%d, %d): %w", start, end, ErrOutOfRange)
	}
	if _, err := d.store.ByteToChar(start); err != nil {
		return nil, err
	}
	if _, err := d.store.ByteToChar(end); err != nil {
		return nil, err
	}
	return d.highlight(start, end)
}

// highlight walks from the smallest node covering the range; without a
// tree the range comes back as one plain span.
func (d *Document) highlight(start, end ByteOffset) ([]Span, error) {
	node := d.hl.DescendantFor(d.syntax.Root(), start, end)
	return d.hl.Highlight(d.store, node, start, end)
}
