package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/treedit/internal/engine/document"
	"github.com/dshills/treedit/internal/logging"
	"github.com/dshills/treedit/internal/syntax"
)

// ScratchName is the display name of the first scratch buffer.
const ScratchName = "Untitled"

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		e.logger = logging.OrNull(l)
	}
}

// WithTabWidth sets the tab width of documents the editor creates.
func WithTabWidth(width int) Option {
	return func(e *Editor) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// Editor is the registry of open buffers. It is safe for concurrent use.
type Editor struct {
	mu       sync.RWMutex
	buffers  map[uuid.UUID]*Buffer
	byPath   map[string]uuid.UUID
	order    []uuid.UUID // open order, for buffer switching
	active   uuid.UUID
	counter  int // scratch buffers created so far
	grammars *syntax.Registry
	tabWidth int
	logger   *logging.Logger
}

// New creates an editor that selects grammars from grammars. A nil
// registry means every buffer is plain text.
func New(grammars *syntax.Registry, opts ...Option) *Editor {
	if grammars == nil {
		grammars = syntax.NewRegistry()
	}
	e := &Editor{
		buffers:  make(map[uuid.UUID]*Buffer),
		byPath:   make(map[string]uuid.UUID),
		grammars: grammars,
		tabWidth: document.DefaultTabWidth,
		logger:   logging.Null(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("editor")
	return e
}

// Grammars returns the grammar registry.
func (e *Editor) Grammars() *syntax.Registry {
	return e.grammars
}

// newDocument creates a document, falling back to plain text when the
// grammar cannot be attached.
func (e *Editor) newDocument(content, name string, g *syntax.Grammar) *document.Document {
	doc, err := document.New(content, name, g,
		document.WithLogger(e.logger),
		document.WithTabWidth(e.tabWidth),
	)
	if err != nil {
		e.logger.Warn("%s: %v", name, err)
	}
	return doc
}

// add registers b and makes it active. The caller holds e.mu.
func (e *Editor) add(b *Buffer) {
	e.buffers[b.ID] = b
	if b.Path != "" {
		e.byPath[b.Path] = b.ID
	}
	e.order = append(e.order, b.ID)
	e.active = b.ID
}

// Scratch creates an empty plain-text buffer with no file.
func (e *Editor) Scratch() *Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.counter++
	name := ScratchName
	if e.counter > 1 {
		name += "-" + strconv.Itoa(e.counter)
	}
	b := &Buffer{ID: uuid.New(), Doc: e.newDocument("", name, nil)}
	e.add(b)
	return b
}

// Open opens the file at path, choosing a grammar from its extension. A
// file that is already open is returned as is.
func (e *Editor) Open(path string) (*Buffer, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &OperationError{Op: "open", Target: path, Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if id, ok := e.byPath[absPath]; ok {
		e.active = id
		return e.buffers[id], nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &OperationError{Op: "open", Target: absPath, Err: err}
	}

	g, _ := e.grammars.ForPath(absPath)
	b := &Buffer{
		ID:   uuid.New(),
		Path: absPath,
		Doc:  e.newDocument(string(content), filepath.Base(absPath), g),
	}
	e.add(b)

	e.logger.Info("opened %s (%s)", absPath, grammarName(g))
	return b, nil
}

// OpenString creates a scratch buffer holding content. language names the
// grammar; when empty the grammar is chosen from the extension of name.
func (e *Editor) OpenString(name, content, language string) (*Buffer, error) {
	var g *syntax.Grammar
	if language != "" {
		var err error
		if g, err = e.grammars.Lookup(language); err != nil {
			return nil, err
		}
	} else {
		g, _ = e.grammars.ForPath(name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	b := &Buffer{ID: uuid.New(), Doc: e.newDocument(content, name, g)}
	e.add(b)
	return b, nil
}

func grammarName(g *syntax.Grammar) string {
	if g == nil {
		return "plain text"
	}
	return g.Name
}

// Save writes the buffer's text to its file.
func (e *Editor) Save(id uuid.UUID) error {
	b, ok := e.Get(id)
	if !ok {
		return ErrBufferNotFound
	}
	if b.IsScratch() {
		return &OperationError{Op: "save", Target: b.Name(), Err: ErrScratchBuffer}
	}
	if err := os.WriteFile(b.Path, []byte(b.Doc.Text()), 0o644); err != nil {
		return &OperationError{Op: "save", Target: b.Path, Err: err}
	}
	b.SetModified(false)
	return nil
}

// Close removes a buffer and releases its parser. Panes still holding the
// buffer keep a usable plain-text document.
func (e *Editor) Close(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.buffers[id]
	if !ok {
		return ErrBufferNotFound
	}
	delete(e.buffers, id)
	if b.Path != "" {
		delete(e.byPath, b.Path)
	}
	for i, other := range e.order {
		if other == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if e.active == id {
		e.active = uuid.Nil
		if len(e.order) > 0 {
			e.active = e.order[len(e.order)-1]
		}
	}
	b.Doc.Close()
	return nil
}

// Get returns a buffer by handle.
func (e *Editor) Get(id uuid.UUID) (*Buffer, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.buffers[id]
	return b, ok
}

// GetByPath returns the buffer open for path.
func (e *Editor) GetByPath(path string) (*Buffer, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.byPath[absPath]
	if !ok {
		return nil, false
	}
	return e.buffers[id], true
}

// Active returns the active buffer, or nil when none is open.
func (e *Editor) Active() *Buffer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buffers[e.active]
}

// SetActive makes the buffer with handle id active.
func (e *Editor) SetActive(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.buffers[id]; !ok {
		return ErrBufferNotFound
	}
	e.active = id
	return nil
}

// All returns the open buffers in open order.
func (e *Editor) All() []*Buffer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	bufs := make([]*Buffer, 0, len(e.order))
	for _, id := range e.order {
		bufs = append(bufs, e.buffers[id])
	}
	return bufs
}

// Count returns the number of open buffers.
func (e *Editor) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.buffers)
}

// Next makes the buffer after the active one active, wrapping around.
func (e *Editor) Next() *Buffer {
	return e.cycle(1)
}

// Previous makes the buffer before the active one active, wrapping around.
func (e *Editor) Previous() *Buffer {
	return e.cycle(-1)
}

func (e *Editor) cycle(step int) *Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.order)
	if n == 0 {
		return nil
	}
	for i, id := range e.order {
		if id == e.active {
			e.active = e.order[(i+step+n)%n]
			break
		}
	}
	return e.buffers[e.active]
}

// NewPane creates a pane showing the buffer with handle id.
func (e *Editor) NewPane(id uuid.UUID) (*Pane, error) {
	b, ok := e.Get(id)
	if !ok {
		return nil, ErrBufferNotFound
	}
	return NewPane(b), nil
}

// ApplyLanguage re-attaches every open buffer whose grammar is named name
// to the grammar currently registered under that name. It is used after
// the registry has been reconfigured.
func (e *Editor) ApplyLanguage(name string) error {
	g, err := e.grammars.Lookup(name)
	if err != nil {
		return err
	}
	var errs []error
	for _, b := range e.All() {
		if cur := b.Doc.Grammar(); cur != nil && cur.Name == g.Name && cur != g {
			if err := b.Doc.Attach(g); err != nil {
				errs = append(errs, &OperationError{Op: "attach", Target: b.Name(), Err: err})
			}
		}
	}
	return errors.Join(errs...)
}
