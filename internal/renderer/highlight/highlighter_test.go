package highlight

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/dshills/treedit/internal/engine/buffer"
)

const jsSource = "const s = \"a b\"; // hi\nlet x = 1;"

func parseJS(t *testing.T, src string) *sitter.Tree {
	t.Helper()
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(javascript.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tree
}

func checkCoverage(t *testing.T, spans []Span, src string, start, end ByteOffset) {
	t.Helper()
	if got, want := Join(spans), src[start:end]; got != want {
		t.Fatalf("spans for %d..%d join to %q, want %q", start, end, got, want)
	}
	pos := start
	for _, s := range spans {
		if s.Start != pos {
			t.Fatalf("span %v starts at %d, want %d", s, s.Start, pos)
		}
		if s.End <= s.Start {
			t.Fatalf("zero-length span %v", s)
		}
		if src[s.Start:s.End] != s.Text {
			t.Fatalf("span %v text does not match source", s)
		}
		pos = s.End
	}
}

func TestHighlightCoverage(t *testing.T) {
	tree := parseJS(t, jsSource)
	src := buffer.FromString(jsSource).Snapshot()
	h := New(nil)

	n := ByteOffset(len(jsSource))
	for start := ByteOffset(0); start <= n; start++ {
		for end := start; end <= n; end++ {
			spans, err := h.Highlight(src, tree.RootNode(), start, end)
			if err != nil {
				t.Fatalf("Highlight(%d, %d): %v", start, end, err)
			}
			if start == end {
				if len(spans) != 0 {
					t.Fatalf("empty range produced %v", spans)
				}
				continue
			}
			checkCoverage(t, spans, jsSource, start, end)
		}
	}
}

func findSpan(spans []Span, kind string) (Span, bool) {
	for _, s := range spans {
		if s.Kind == kind {
			return s, true
		}
	}
	return Span{}, false
}

func TestHighlightAtomicKinds(t *testing.T) {
	tree := parseJS(t, jsSource)
	src := buffer.FromString(jsSource).Snapshot()

	spans, err := New(nil).Highlight(src, tree.RootNode(), 0, src.LenBytes())
	if err != nil {
		t.Fatal(err)
	}
	str, ok := findSpan(spans, "string")
	if !ok || str.Text != `"a b"` {
		t.Errorf("string span = %v, %v; want one token for the whole literal", str, ok)
	}
	if _, ok := findSpan(spans, "string_fragment"); ok {
		t.Error("descended into an atomic string")
	}
	if c, ok := findSpan(spans, "comment"); !ok || c.Text != "// hi" {
		t.Errorf("comment span = %v, %v", c, ok)
	}
	if k, ok := findSpan(spans, "const"); !ok || k.Text != "const" {
		t.Errorf("keyword span = %v, %v", k, ok)
	}

	// Without "string" in the atomic set the literal's children are emitted.
	spans, err = New([]string{"comment"}).Highlight(src, tree.RootNode(), 0, src.LenBytes())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := findSpan(spans, "string"); ok {
		t.Error("string emitted whole although not atomic")
	}
	if q, ok := findSpan(spans, `"`); !ok || q.Text != `"` {
		t.Errorf("quote span = %v, %v", q, ok)
	}
}

func TestHighlightClampsToRange(t *testing.T) {
	tree := parseJS(t, jsSource)
	src := buffer.FromString(jsSource).Snapshot()

	spans, err := New(nil).Highlight(src, tree.RootNode(), 11, 14)
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 || spans[0].Kind != "string" || spans[0].Text != "a b" {
		t.Fatalf("spans = %v, want one clamped string token", spans)
	}

	spans, err = New(nil).Highlight(src, tree.RootNode(), 19, 100)
	if err != nil {
		t.Fatal(err)
	}
	checkCoverage(t, spans, jsSource, 19, ByteOffset(len(jsSource)))
	if spans[0].Kind != "comment" || spans[0].Text != " hi" {
		t.Errorf("first span = %v, want clamped comment", spans[0])
	}
}

func TestHighlightEdgeCases(t *testing.T) {
	src := buffer.FromString("plain text").Snapshot()
	h := New(nil)

	spans, err := h.Highlight(src, nil, 0, src.LenBytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 || !spans[0].IsPlain() || spans[0].Text != "plain text" {
		t.Errorf("nil node spans = %v", spans)
	}

	spans, err = h.Highlight(src, nil, 5, 2)
	if err != nil || spans != nil {
		t.Errorf("inverted range = %v, %v", spans, err)
	}

	tree := parseJS(t, "")
	empty := buffer.New().Snapshot()
	spans, err = h.Highlight(empty, tree.RootNode(), 0, 0)
	if err != nil || len(spans) != 0 {
		t.Errorf("empty document = %v, %v", spans, err)
	}
}

func TestHighlightMultibyte(t *testing.T) {
	const text = "let s = 'héllo 日本'; // ✓\n"
	tree := parseJS(t, text)
	src := buffer.FromString(text).Snapshot()

	spans, err := New(nil).Highlight(src, tree.RootNode(), 0, src.LenBytes())
	if err != nil {
		t.Fatal(err)
	}
	checkCoverage(t, spans, text, 0, ByteOffset(len(text)))
	if s, ok := findSpan(spans, "string"); !ok || s.Text != "'héllo 日本'" {
		t.Errorf("string span = %v, %v", s, ok)
	}
}

func TestDescendantFor(t *testing.T) {
	tree := parseJS(t, jsSource)
	root := tree.RootNode()

	tests := []struct {
		name       string
		atomic     []string
		start, end ByteOffset
		want       string
	}{
		{"whole literal", nil, 10, 15, "string"},
		{"inside literal", nil, 11, 13, "string"},
		{"inside comment", nil, 19, 21, "comment"},
		{"statement", nil, 0, 16, "lexical_declaration"},
		{"identifier", nil, 6, 7, "identifier"},
		{"everything", nil, 0, ByteOffset(len(jsSource)), "program"},
		{"non-atomic literal", []string{"comment"}, 11, 13, "string_fragment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(tt.atomic).DescendantFor(root, tt.start, tt.end)
			if n == nil || n.Type() != tt.want {
				t.Fatalf("DescendantFor(%d, %d) = %v, want %s", tt.start, tt.end, n, tt.want)
			}
			if ByteOffset(n.StartByte()) > tt.start || ByteOffset(n.EndByte()) < tt.end {
				t.Errorf("DescendantFor(%d, %d) = %s [%d, %d) does not cover the range",
					tt.start, tt.end, n.Type(), n.StartByte(), n.EndByte())
			}
		})
	}

	if New(nil).DescendantFor(nil, 0, 1) != nil {
		t.Error("nil root should yield nil")
	}
}

func TestHighlightInsideAtomicNode(t *testing.T) {
	const text = "const t = `first\nmiddle line\nlast`;\nx = \"abc // def\";"
	tree := parseJS(t, text)
	src := buffer.FromString(text).Snapshot()
	h := New([]string{"string", "comment", "template_string"})

	tests := []struct {
		name       string
		start, end ByteOffset
		kind       string
	}{
		{"middle line of template", 17, 28, "template_string"},
		{"bytes inside string", 42, 46, "string"},
		{"comment marker inside string", 45, 51, "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := h.DescendantFor(tree.RootNode(), tt.start, tt.end)
			spans, err := h.Highlight(src, node, tt.start, tt.end)
			if err != nil {
				t.Fatal(err)
			}
			if len(spans) != 1 || spans[0].Kind != tt.kind || spans[0].Text != text[tt.start:tt.end] {
				t.Errorf("spans = %v, want one %s token %q", spans, tt.kind, text[tt.start:tt.end])
			}
		})
	}
}

func TestHighlightFromDescendant(t *testing.T) {
	tree := parseJS(t, jsSource)
	src := buffer.FromString(jsSource).Snapshot()
	h := New(nil)

	// Second line, highlighted starting from the node covering it.
	start, end := ByteOffset(23), ByteOffset(len(jsSource))
	node := h.DescendantFor(tree.RootNode(), start, end)
	spans, err := h.Highlight(src, node, start, end)
	if err != nil {
		t.Fatal(err)
	}
	checkCoverage(t, spans, jsSource, start, end)
	if k, ok := findSpan(spans, "let"); !ok || k.Start != 23 {
		t.Errorf("let span = %v, %v", k, ok)
	}
	if n, ok := findSpan(spans, "number"); !ok || n.Text != "1" {
		t.Errorf("number span = %v, %v", n, ok)
	}
}
