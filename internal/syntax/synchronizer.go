package syntax

import (
	"context"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/treedit/internal/logging"
)

// State is the lifecycle state of a Synchronizer.
type State uint8

const (
	// Unattached means no grammar is attached; edits are ignored.
	Unattached State = iota
	// Synced means the tree is the parse of the current text.
	Synced
	// Editing is held while an edit is being applied.
	Editing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Synced:
		return "synced"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// Synchronizer keeps a tree-sitter tree equal to the parse of a text while
// the text is edited, reusing the previous tree for incremental parsing.
//
// A Synchronizer is not safe for concurrent use; its owner serializes
// access.
type Synchronizer struct {
	grammar *Grammar
	parser  *sitter.Parser
	tree    *sitter.Tree
	state   State
	logger  *logging.Logger
}

// NewSynchronizer creates an unattached synchronizer. A nil logger discards
// output.
func NewSynchronizer(logger *logging.Logger) *Synchronizer {
	return &Synchronizer{
		state:  Unattached,
		logger: logging.OrNull(logger).WithComponent("syntax"),
	}
}

// Attach configures the parser for g and fully parses source. Source that
// does not conform to the grammar still yields a tree with error nodes and
// is not an error. On failure the synchronizer stays as it was.
func (s *Synchronizer) Attach(g *Grammar, source []byte) error {
	if err := g.validate(); err != nil {
		return err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(g.Language)

	start := time.Now()
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		parser.Close()
		return &GrammarError{Name: g.Name, Reason: "parser rejected the language"}
	}

	s.release()
	s.grammar = g
	s.parser = parser
	s.tree = tree
	s.state = Synced

	s.logger.Debug("attached %s (%d bytes) in %s", g.Name, len(source), time.Since(start))
	return nil
}

// ApplyEdit patches the tree with edit and reparses newSource, which must
// be the text after the edit. It is a no-op when unattached. On failure the
// previous tree is kept and a *ParseFailure is returned.
func (s *Synchronizer) ApplyEdit(edit Edit, newSource []byte) error {
	if s.state == Unattached {
		return nil
	}

	s.state = Editing
	defer func() { s.state = Synced }()

	edited := s.tree.Copy()
	edited.Edit(edit.input())
	defer edited.Close()

	start := time.Now()
	tree, err := s.parser.ParseCtx(context.Background(), edited, newSource)
	if err != nil || tree == nil {
		s.logger.Warn("incremental parse failed after %v: %v", edit, err)
		return &ParseFailure{Grammar: s.grammar.Name, Incremental: true, Err: err}
	}

	// The previous tree is left to the garbage collector: callers may still
	// hold nodes that reference it.
	s.tree = tree
	s.logger.Debug("reparsed %s in %s", edit, time.Since(start))
	return nil
}

// Reparse replaces the tree with a parse of source from scratch.
func (s *Synchronizer) Reparse(source []byte) error {
	if s.state == Unattached {
		return nil
	}

	tree, err := s.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		s.logger.Warn("full parse failed: %v", err)
		return &ParseFailure{Grammar: s.grammar.Name, Err: err}
	}
	s.tree = tree
	return nil
}

// ParseFresh parses source from scratch without touching the synchronized
// tree. It returns nil when unattached.
func (s *Synchronizer) ParseFresh(source []byte) (*sitter.Tree, error) {
	if s.state == Unattached {
		return nil, nil
	}
	tree, err := s.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return nil, &ParseFailure{Grammar: s.grammar.Name, Err: err}
	}
	return tree, nil
}

// Tree returns the current tree, or nil when unattached.
func (s *Synchronizer) Tree() *sitter.Tree {
	return s.tree
}

// Root returns the root node of the current tree, or nil when unattached.
func (s *Synchronizer) Root() *sitter.Node {
	if s.tree == nil {
		return nil
	}
	return s.tree.RootNode()
}

// State returns the current state.
func (s *Synchronizer) State() State {
	return s.state
}

// Grammar returns the attached grammar, or nil when unattached.
func (s *Synchronizer) Grammar() *Grammar {
	return s.grammar
}

// Close releases the parser and tree and returns to Unattached.
func (s *Synchronizer) Close() {
	s.release()
	s.grammar = nil
	s.state = Unattached
}

func (s *Synchronizer) release() {
	if s.parser != nil {
		s.parser.Close()
		s.parser = nil
	}
	s.tree = nil
}
