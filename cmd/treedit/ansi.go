package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/treedit/internal/editor"
	"github.com/dshills/treedit/internal/renderer/highlight"
)

const ansiReset = "\x1b[0m"

// printer writes pane rows as text, coloured with SGR escapes from the
// theme when color is set.
type printer struct {
	w     *bufio.Writer
	theme *highlight.Theme
	color bool
	cache map[string]string
}

func newPrinter(w io.Writer, theme *highlight.Theme, color bool) *printer {
	return &printer{w: bufio.NewWriter(w), theme: theme, color: color, cache: make(map[string]string)}
}

func (p *printer) row(r editor.Row) {
	for _, seg := range r.Segments {
		if !p.color {
			p.w.WriteString(seg.Text)
			continue
		}
		seq, ok := p.cache[seg.Kind]
		if !ok {
			seq = sgr(p.theme.StyleForKind(seg.Kind))
			p.cache[seg.Kind] = seq
		}
		if seq == "" {
			p.w.WriteString(seg.Text)
			continue
		}
		p.w.WriteString(seq)
		p.w.WriteString(seg.Text)
		p.w.WriteString(ansiReset)
	}
	p.w.WriteByte('\n')
}

func (p *printer) flush() error {
	return p.w.Flush()
}

// sgr returns the escape sequence selecting style's foreground colour and
// attributes. The theme background is left to the terminal.
func sgr(style tcell.Style) string {
	fg, _, attr := style.Decompose()
	var seq string
	if attr&tcell.AttrBold != 0 {
		seq += "\x1b[1m"
	}
	if attr&tcell.AttrItalic != 0 {
		seq += "\x1b[3m"
	}
	if r, g, b := fg.RGB(); r >= 0 {
		seq += fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
	}
	return seq
}
