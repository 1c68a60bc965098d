package editor

import (
	"fmt"
	"sync"

	"github.com/dshills/treedit/internal/engine/buffer"
	"github.com/dshills/treedit/internal/engine/coord"
	"github.com/dshills/treedit/internal/engine/document"
)

// View is what a pane shows: the visible rows and where the cursor is on
// screen.
type View struct {
	Top     uint32 // first document row shown
	Left    int    // first display column shown
	Rows    []Row
	CursorX int
	CursorY int
}

// Pane is a cursor and scroll position over a buffer. Panes sharing a
// buffer see each other's edits; a cursor left past the end of the text by
// another pane's edit is pulled back before it is used.
type Pane struct {
	mu     sync.Mutex
	buf    *Buffer
	cursor coord.Point
	top    uint32
	left   int
}

// NewPane creates a pane with the cursor at the start of b.
func NewPane(b *Buffer) *Pane {
	return &Pane{buf: b}
}

// Buffer returns the buffer shown.
func (p *Pane) Buffer() *Buffer {
	return p.buf
}

func (p *Pane) doc() *document.Document {
	return p.buf.Doc
}

// Cursor returns the cursor position.
func (p *Pane) Cursor() coord.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clamp(p.doc().Snapshot())
	return p.cursor
}

// SetCursor moves the cursor to pt, which must be inside the text.
func (p *Pane) SetCursor(pt coord.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := coord.PointToChar(p.doc().Snapshot(), pt); err != nil {
		return err
	}
	p.cursor = pt
	return nil
}

// ScrollTo shows row at the top of the pane and puts the cursor at its
// start.
func (p *Pane) ScrollTo(row uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := p.doc().LenLines(); row >= n {
		return fmt.Errorf("editor: scroll to row %d of %d: %w", row, n, document.ErrOutOfRange)
	}
	p.top = row
	p.left = 0
	p.cursor = coord.Point{Row: row}
	return nil
}

// clamp pulls the cursor back inside snap.
func (p *Pane) clamp(snap buffer.Snapshot) {
	if last := snap.LenLines() - 1; p.cursor.Row > last {
		p.cursor.Row = last
	}
	if lv, err := snap.Line(p.cursor.Row); err == nil {
		p.cursor.Column = min(p.cursor.Column, uint32(lv.LenChars()))
	}
}

// offset returns the character offset of the clamped cursor.
func (p *Pane) offset() (buffer.Snapshot, coord.CharOffset) {
	snap := p.doc().Snapshot()
	p.clamp(snap)
	c, _ := coord.PointToChar(snap, p.cursor)
	return snap, c
}

// MoveLeft moves the cursor one character back, wrapping to the end of
// the previous line.
func (p *Pane) MoveLeft() {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, c := p.offset()
	if c > 0 {
		p.cursor, _ = coord.CharToPoint(snap, c-1)
	}
}

// MoveRight moves the cursor one character forward, wrapping to the start
// of the next line.
func (p *Pane) MoveRight() {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, c := p.offset()
	if c < snap.LenChars() {
		p.cursor, _ = coord.CharToPoint(snap, c+1)
	}
}

// MoveUp moves the cursor one line up, keeping the column when the line is
// long enough.
func (p *Pane) MoveUp() {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, _ := p.offset()
	if p.cursor.Row > 0 {
		p.cursor.Row--
		p.clamp(snap)
	}
}

// MoveDown moves the cursor one line down.
func (p *Pane) MoveDown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, _ := p.offset()
	if p.cursor.Row+1 < snap.LenLines() {
		p.cursor.Row++
		p.clamp(snap)
	}
}

// MoveLineStart moves the cursor to the start of its line.
func (p *Pane) MoveLineStart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset()
	p.cursor.Column = 0
}

// MoveLineEnd moves the cursor past the last character of its line.
func (p *Pane) MoveLineEnd() {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, _ := p.offset()
	if lv, err := snap.Line(p.cursor.Row); err == nil {
		p.cursor.Column = uint32(lv.LenChars())
	}
}

// InsertAtCursor inserts text at the cursor and moves the cursor after it.
func (p *Pane) InsertAtCursor(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset()

	pt, err := p.doc().InsertAt(p.cursor, text)
	if err != nil {
		return err
	}
	p.cursor = pt
	p.buf.SetModified(true)
	return nil
}

// DeleteBackwardsAtCursor deletes up to n characters before the cursor.
func (p *Pane) DeleteBackwardsAtCursor(n int) error {
	if n <= 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset()

	pt, err := p.doc().DeleteBefore(p.cursor, coord.CharOffset(n))
	if err != nil {
		return err
	}
	if pt != p.cursor {
		p.buf.SetModified(true)
	}
	p.cursor = pt
	return nil
}

// DeleteForwardsAtCursor deletes up to n characters at the cursor.
func (p *Pane) DeleteForwardsAtCursor(n int) error {
	if n <= 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, c := p.offset()
	if c == snap.LenChars() {
		return nil
	}

	if _, err := p.doc().DeleteAfter(p.cursor, coord.CharOffset(n)); err != nil {
		return err
	}
	p.buf.SetModified(true)
	return nil
}

// Render lays out a width x height window of the buffer, scrolling first
// so the cursor is visible. A width <= 0 does not clip lines.
func (p *Pane) Render(width, height int) (View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if height <= 0 {
		return View{Top: p.top, Left: p.left}, nil
	}

	snap, _ := p.offset()
	h := uint32(height)
	switch {
	case p.cursor.Row < p.top:
		p.top = p.cursor.Row
	case p.cursor.Row >= p.top+h:
		p.top = p.cursor.Row - h + 1
	}
	p.top = min(p.top, snap.LenLines()-1)

	tabWidth := p.doc().TabWidth()
	lv, err := snap.Line(p.cursor.Row)
	if err != nil {
		return View{}, err
	}
	cx := displayColumn(lv.String(), p.cursor.Column, tabWidth)
	if width > 0 {
		switch {
		case cx < p.left:
			p.left = cx
		case cx >= p.left+width:
			p.left = cx - width + 1
		}
	} else {
		p.left = 0
	}

	lines, err := p.doc().RenderRange(p.top, h)
	if err != nil {
		return View{}, err
	}
	rows := make([]Row, len(lines))
	for i, l := range lines {
		rows[i] = Row{Line: l.Row, Segments: layout(l, tabWidth, p.left, width)}
	}

	return View{
		Top:     p.top,
		Left:    p.left,
		Rows:    rows,
		CursorX: cx - p.left,
		CursorY: int(p.cursor.Row - p.top),
	}, nil
}
