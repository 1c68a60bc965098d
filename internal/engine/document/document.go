package document

import (
	"fmt"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/treedit/internal/engine/buffer"
	"github.com/dshills/treedit/internal/engine/coord"
	"github.com/dshills/treedit/internal/logging"
	"github.com/dshills/treedit/internal/renderer/highlight"
	"github.com/dshills/treedit/internal/syntax"
)

// Re-export commonly used types for convenience.
type (
	// CharOffset is a position counted in Unicode code points.
	CharOffset = coord.CharOffset

	// ByteOffset is a UTF-8 byte position.
	ByteOffset = coord.ByteOffset

	// Point is a (row, column) position with the column in characters.
	Point = coord.Point

	// Span is a run of highlighted text.
	Span = highlight.Span
)

// Document is a named text with an optional attached grammar.
type Document struct {
	mu sync.Mutex

	name   string
	store  *buffer.Store
	syntax *syntax.Synchronizer
	hl     *highlight.Highlighter

	tabWidth    int
	atomicKinds []string
	logger      *logging.Logger
}

// New creates a document holding content. With a nil grammar the document
// is plain text. If the grammar cannot be attached the document is still
// returned, unattached, together with the error.
func New(content, name string, grammar *syntax.Grammar, opts ...Option) (*Document, error) {
	d := &Document{
		name:     name,
		store:    buffer.FromString(content),
		tabWidth: DefaultTabWidth,
		logger:   logging.Null(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("document").WithField("name", name)
	d.syntax = syntax.NewSynchronizer(d.logger)
	d.hl = d.highlighterFor(nil)

	if grammar == nil {
		return d, nil
	}
	if err := d.attach(grammar); err != nil {
		d.logger.Warn("falling back to plain text: %v", err)
		return d, err
	}
	return d, nil
}

func (d *Document) highlighterFor(g *syntax.Grammar) *highlight.Highlighter {
	switch {
	case len(d.atomicKinds) > 0:
		return highlight.New(d.atomicKinds)
	case g != nil:
		return highlight.New(g.AtomicKinds)
	default:
		return highlight.New(nil)
	}
}

func (d *Document) attach(g *syntax.Grammar) error {
	if err := d.syntax.Attach(g, d.source()); err != nil {
		return err
	}
	d.hl = d.highlighterFor(g)
	return nil
}

func (d *Document) source() []byte {
	return []byte(d.store.String())
}

// Attach parses the document with g, replacing any attached grammar. On
// failure the document keeps its previous state.
func (d *Document) Attach(g *syntax.Grammar) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attach(g)
}

// Detach drops the grammar and tree. The document becomes plain text.
func (d *Document) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syntax.Close()
	d.hl = d.highlighterFor(nil)
}

// Close releases parser resources.
func (d *Document) Close() {
	d.Detach()
}

// Name returns the display name.
func (d *Document) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// SetName changes the display name.
func (d *Document) SetName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
}

// TabWidth returns the display width of a tab.
func (d *Document) TabWidth() int {
	return d.tabWidth
}

// Text returns the full content.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.String()
}

// LenChars returns the content length in characters.
func (d *Document) LenChars() CharOffset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.LenChars()
}

// LenLines returns the number of lines.
func (d *Document) LenLines() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.LenLines()
}

// Snapshot returns a read-only view of the current text.
func (d *Document) Snapshot() buffer.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Snapshot()
}

// State returns the syntax state.
func (d *Document) State() syntax.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syntax.State()
}

// Grammar returns the attached grammar, or nil.
func (d *Document) Grammar() *syntax.Grammar {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syntax.Grammar()
}

// Edit replaces the characters in [start, end) with replacement and returns
// the offset just after the inserted text. start == end inserts; an empty
// replacement deletes. A range outside the text returns ErrOutOfRange and
// changes nothing, as does a parse failure.
func (d *Document) Edit(start, end CharOffset, replacement string) (CharOffset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit(start, end, replacement)
}

func (d *Document) edit(start, end CharOffset, text string) (CharOffset, error) {
	total := d.store.LenChars()
	if start > end || end > total {
		return 0, &EditError{Start: start, End: end, Len: total}
	}
	text = buffer.NormalizeLineEndings(text)
	if start == end && text == "" {
		return start, nil
	}

	bs, err := d.store.CharToByte(start)
	if err != nil {
		return 0, err
	}
	be, err := d.store.CharToByte(end)
	if err != nil {
		return 0, err
	}
	// The descriptor needs positions in the text before the change.
	edit, err := syntax.NewEdit(d.store, bs, be, text)
	if err != nil {
		return 0, err
	}

	next := d.store.Clone()
	if err := next.Replace(start, end, text); err != nil {
		return 0, err
	}
	if d.syntax.State() != syntax.Unattached {
		if err := d.syntax.ApplyEdit(edit, []byte(next.String())); err != nil {
			return 0, fmt.Errorf("document %q: %w", d.name, err)
		}
	}
	d.store = next

	d.logger.Debug("edit %d..%d with %d chars", start, end, utf8.RuneCountInString(text))
	return start + CharOffset(utf8.RuneCountInString(text)), nil
}

// InsertAt inserts text at p and returns the position after it.
func (d *Document) InsertAt(p Point, text string) (Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := coord.PointToChar(d.store, p)
	if err != nil {
		return p, err
	}
	after, err := d.edit(c, c, text)
	if err != nil {
		return p, err
	}
	return coord.CharToPoint(d.store, after)
}

// DeleteBefore deletes up to n characters before p, joining lines when it
// crosses a line start. It stops at the start of the text and returns the
// new position of p.
func (d *Document) DeleteBefore(p Point, n CharOffset) (Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := coord.PointToChar(d.store, p)
	if err != nil {
		return p, err
	}
	start := c - min(n, c)
	if _, err := d.edit(start, c, ""); err != nil {
		return p, err
	}
	return coord.CharToPoint(d.store, start)
}

// DeleteAfter deletes up to n characters at and after p, stopping at the
// end of the text. The position is unchanged.
func (d *Document) DeleteAfter(p Point, n CharOffset) (Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := coord.PointToChar(d.store, p)
	if err != nil {
		return p, err
	}
	end := c + min(n, d.store.LenChars()-c)
	if _, err := d.edit(c, end, ""); err != nil {
		return p, err
	}
	return p, nil
}

// Reparse replaces the tree with a parse from scratch.
func (d *Document) Reparse() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syntax.Reparse(d.source())
}

// Tree returns the current syntax tree, or nil when unattached. The tree
// is never modified in place, so it stays valid after later edits.
func (d *Document) Tree() *sitter.Tree {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syntax.Tree()
}

// SExpr returns the current tree as an S-expression, or "" when
// unattached.
func (d *Document) SExpr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if root := d.syntax.Root(); root != nil {
		return root.String()
	}
	return ""
}

// ReparsedSExpr parses the current text from scratch and returns that
// tree as an S-expression, leaving the document's tree alone. It reports
// whether the fresh tree contains syntax errors.
func (d *Document) ReparsedSExpr() (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tree, err := d.syntax.ParseFresh(d.source())
	if err != nil || tree == nil {
		return "", false, err
	}
	defer tree.Close()
	root := tree.RootNode()
	return root.String(), root.HasError(), nil
}
