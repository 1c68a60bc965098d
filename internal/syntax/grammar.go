package syntax

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// DefaultAtomicKinds are node kinds highlighted as single tokens in every
// grammar; their children are never visited.
var DefaultAtomicKinds = []string{"string", "comment"}

// Grammar is a tree-sitter language plus the editor metadata attached to it.
type Grammar struct {
	// Name is the registry key, e.g. "javascript".
	Name string

	// Language is the compiled tree-sitter grammar.
	Language *sitter.Language

	// Extensions are file extensions, including the dot, that select this
	// grammar.
	Extensions []string

	// AtomicKinds are node kinds rendered as a single token.
	AtomicKinds []string
}

// IsAtomic reports whether kind is one of the grammar's atomic kinds.
func (g *Grammar) IsAtomic(kind string) bool {
	if g == nil {
		return false
	}
	for _, k := range g.AtomicKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// validate checks that the grammar can be handed to a parser.
func (g *Grammar) validate() error {
	if g == nil {
		return &GrammarError{Reason: "no grammar"}
	}
	if g.Language == nil {
		return &GrammarError{Name: g.Name, Reason: "no language"}
	}
	if g.Language.SymbolCount() == 0 {
		return &GrammarError{Name: g.Name, Reason: "language has no symbols"}
	}
	return nil
}

// Registry maps grammar names and file extensions to grammars.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Grammar
	byExt  map[string]*Grammar
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Grammar),
		byExt:  make(map[string]*Grammar),
	}
}

// DefaultRegistry creates a registry holding every built-in grammar.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, g := range builtinGrammars() {
		// Built-ins are well formed; Register only fails on invalid input.
		_ = r.Register(g)
	}
	return r
}

// Register adds a grammar, replacing any grammar with the same name.
func (r *Registry) Register(g *Grammar) error {
	if err := g.validate(); err != nil {
		return err
	}
	if g.Name == "" {
		return &GrammarError{Reason: "grammar has no name"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(g.Name)
	if old, ok := r.byName[key]; ok {
		r.dropExtensions(old)
	}
	r.byName[key] = g
	for _, ext := range g.Extensions {
		r.byExt[normalizeExt(ext)] = g
	}
	return nil
}

// Lookup returns the grammar registered under name.
func (r *Registry) Lookup(name string) (*Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("syntax: lookup %q: %w", name, ErrUnknownGrammar)
	}
	return g, nil
}

// ForPath returns the grammar selected by the extension of path.
func (r *Registry) ForPath(path string) (*Grammar, bool) {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byExt[ext]
	return g, ok
}

// Names returns the registered grammar names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for _, g := range r.byName {
		names = append(names, g.Name)
	}
	sort.Strings(names)
	return names
}

// Configure overrides the extensions and atomic kinds of a registered
// grammar. Empty slices leave the current values in place. The grammar is
// replaced, not mutated, so documents already holding it are unaffected.
func (r *Registry) Configure(name string, extensions, atomicKinds []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(name)
	old, ok := r.byName[key]
	if !ok {
		return fmt.Errorf("syntax: configure %q: %w", name, ErrUnknownGrammar)
	}

	g := *old
	if len(extensions) > 0 {
		g.Extensions = append([]string(nil), extensions...)
	}
	if len(atomicKinds) > 0 {
		g.AtomicKinds = append([]string(nil), atomicKinds...)
	}

	r.dropExtensions(old)
	r.byName[key] = &g
	for _, ext := range g.Extensions {
		r.byExt[normalizeExt(ext)] = &g
	}
	return nil
}

func (r *Registry) dropExtensions(g *Grammar) {
	for _, ext := range g.Extensions {
		if r.byExt[normalizeExt(ext)] == g {
			delete(r.byExt, normalizeExt(ext))
		}
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ReplaceAll replaces every grammar in r with the grammars of other.
func (r *Registry) ReplaceAll(other *Registry) {
	if r == other {
		return
	}
	other.mu.RLock()
	byName := make(map[string]*Grammar, len(other.byName))
	for k, g := range other.byName {
		byName[k] = g
	}
	byExt := make(map[string]*Grammar, len(other.byExt))
	for k, g := range other.byExt {
		byExt[k] = g
	}
	other.mu.RUnlock()

	r.mu.Lock()
	r.byName, r.byExt = byName, byExt
	r.mu.Unlock()
}
