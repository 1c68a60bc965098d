package highlight

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/treedit/internal/engine/coord"
	"github.com/dshills/treedit/internal/syntax"
)

// ByteOffset is a UTF-8 byte position in the source.
type ByteOffset = coord.ByteOffset

// Span is a run of source text tagged with the kind of the syntax node it
// came from. Plain text between tokens has an empty Kind.
type Span struct {
	Text  string
	Kind  string
	Start ByteOffset
	End   ByteOffset
}

// IsPlain reports whether the span is untagged text.
func (s Span) IsPlain() bool {
	return s.Kind == ""
}

func (s Span) String() string {
	if s.Kind == "" {
		return fmt.Sprintf("%q", s.Text)
	}
	return fmt.Sprintf("%s%q", s.Kind, s.Text)
}

// Source is the text a tree was parsed from.
type Source interface {
	SliceBytes(start, end ByteOffset) (string, error)
	LenBytes() ByteOffset
}

// Highlighter turns a syntax tree into spans.
type Highlighter struct {
	atomic map[string]struct{}
}

// New creates a highlighter treating the given kinds as atomic. With no
// kinds, syntax.DefaultAtomicKinds is used.
func New(atomicKinds []string) *Highlighter {
	if len(atomicKinds) == 0 {
		atomicKinds = syntax.DefaultAtomicKinds
	}
	h := &Highlighter{atomic: make(map[string]struct{}, len(atomicKinds))}
	for _, k := range atomicKinds {
		h.atomic[k] = struct{}{}
	}
	return h
}

// IsAtomic reports whether nodes of kind are emitted whole.
func (h *Highlighter) IsAtomic(kind string) bool {
	_, ok := h.atomic[kind]
	return ok
}

// Highlight walks the tree below node depth first and returns spans
// covering exactly [start, end) of src. Atomic and childless nodes become
// tagged spans clamped to the range; the text between them becomes plain
// spans. Zero-length spans are never emitted.
func (h *Highlighter) Highlight(src Source, node *sitter.Node, start, end ByteOffset) ([]Span, error) {
	end = min(end, src.LenBytes())
	if start >= end {
		return nil, nil
	}

	var spans []Span
	pos := start
	emit := func(s, e ByteOffset, kind string) error {
		if s >= e {
			return nil
		}
		text, err := src.SliceBytes(s, e)
		if err != nil {
			return fmt.Errorf("highlight %d..%d: %w", s, e, err)
		}
		spans = append(spans, Span{Text: text, Kind: kind, Start: s, End: e})
		return nil
	}

	if node != nil {
		cursor := sitter.NewTreeCursor(node)
		defer cursor.Close()

	walk:
		for {
			n := cursor.CurrentNode()
			ns, ne := ByteOffset(n.StartByte()), ByteOffset(n.EndByte())
			if ns >= end {
				break
			}

			if ne > pos {
				kind := n.Type()
				if h.IsAtomic(kind) || n.ChildCount() == 0 {
					s, e := max(ns, pos), min(ne, end)
					if err := emit(pos, s, ""); err != nil {
						return nil, err
					}
					if err := emit(s, e, kind); err != nil {
						return nil, err
					}
					pos = max(pos, e)
				} else if cursor.GoToFirstChild() {
					continue
				}
			}

			for !cursor.GoToNextSibling() {
				if !cursor.GoToParent() {
					break walk
				}
			}
		}
	}

	if err := emit(pos, end, ""); err != nil {
		return nil, err
	}
	return spans, nil
}

// DescendantFor returns the smallest node below root that spans the byte
// range [start, end), or root when no child covers it. The descent stops
// at atomic nodes, so a range inside a string starts the walk at the
// string and not at one of its fragments.
func (h *Highlighter) DescendantFor(root *sitter.Node, start, end ByteOffset) *sitter.Node {
	if root == nil {
		return nil
	}
	node := root
	for !h.IsAtomic(node.Type()) {
		var next *sitter.Node
		for i := 0; i < int(node.ChildCount()); i++ {
			c := node.Child(i)
			cs, ce := ByteOffset(c.StartByte()), ByteOffset(c.EndByte())
			if cs > start {
				break
			}
			if ce >= end && ce > start {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		node = next
	}
	return node
}

// Join concatenates the text of spans.
func Join(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
