package editor

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/treedit/internal/engine/document"
)

// Segment is a run of display text with the node kind it was highlighted
// as. Width is the number of terminal cells it occupies.
type Segment struct {
	Text  string
	Kind  string
	Width int
}

// Row is one screen row of a pane.
type Row struct {
	Line     uint32 // document row shown
	Segments []Segment
}

// Text returns the concatenated text of the row's segments.
func (r Row) Text() string {
	var b strings.Builder
	for _, s := range r.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// layout converts a highlighted line to screen segments. Tabs expand to
// the next multiple of tabWidth; only the display columns
// [left, left+width) are kept, and a wide grapheme cut by either edge is
// replaced by spaces. A width <= 0 keeps everything right of left.
func layout(line document.Line, tabWidth, left, width int) []Segment {
	var segs []Segment
	col := 0
	right := left + width

	put := func(text, kind string, w int) {
		if n := len(segs); n > 0 && segs[n-1].Kind == kind {
			segs[n-1].Text += text
			segs[n-1].Width += w
			return
		}
		segs = append(segs, Segment{Text: text, Kind: kind, Width: w})
	}

	for _, span := range line.Spans {
		g := uniseg.NewGraphemes(span.Text)
		for g.Next() {
			cluster, w := g.Str(), g.Width()
			if cluster == "\t" {
				w = tabWidth - col%tabWidth
				cluster = strings.Repeat(" ", w)
			}
			start, end := col, col+w
			col = end

			if end <= left {
				continue
			}
			if width > 0 && start >= right {
				return segs
			}
			lo, hi := max(start, left), end
			if width > 0 {
				hi = min(end, right)
			}
			if lo > start || hi < end {
				// Cut by an edge: pad the visible cells.
				put(strings.Repeat(" ", hi-lo), span.Kind, hi-lo)
			} else {
				put(cluster, span.Kind, w)
			}
		}
	}
	return segs
}

// displayColumn returns the display column of character column c in text.
func displayColumn(text string, c uint32, tabWidth int) int {
	col := 0
	var n uint32
	g := uniseg.NewGraphemes(text)
	for n < c && g.Next() {
		cluster := g.Str()
		if cluster == "\t" {
			col += tabWidth - col%tabWidth
		} else {
			col += g.Width()
		}
		n += uint32(len([]rune(cluster)))
	}
	return col
}
