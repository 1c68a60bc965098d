package document

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/treedit/internal/renderer/highlight"
	"github.com/dshills/treedit/internal/syntax"
)

func javascript(t *testing.T) *syntax.Grammar {
	t.Helper()
	g, err := syntax.DefaultRegistry().Lookup("javascript")
	if err != nil {
		t.Fatalf("lookup javascript: %v", err)
	}
	return g
}

func newJS(t *testing.T, content string) *Document {
	t.Helper()
	d, err := New(content, "test.js", javascript(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

// checkSynced compares the incrementally maintained tree with a parse from
// scratch. Valid text must give identical trees. With syntax errors the
// recovery inside ERROR and missing nodes may differ, but every node
// outside them must match in kind and byte range.
func checkSynced(t *testing.T, d *Document) {
	t.Helper()
	fresh, hasErr, err := d.ReparsedSExpr()
	if err != nil {
		t.Fatalf("ReparsedSExpr: %v", err)
	}
	got := d.SExpr()
	if got == "" {
		t.Fatal("attached document has no tree")
	}
	if !hasErr {
		if got != fresh {
			t.Fatalf("tree out of sync for %q\nincremental: %s\nscratch:     %s", d.Text(), got, fresh)
		}
		return
	}

	scratch, err := d.syntax.ParseFresh(d.source())
	if err != nil {
		t.Fatalf("ParseFresh: %v", err)
	}
	defer scratch.Close()
	if where := firstMismatch(d.Tree().RootNode(), scratch.RootNode()); where != "" {
		t.Fatalf("tree out of sync at %s for %q\nincremental: %s\nscratch:     %s", where, d.Text(), got, fresh)
	}
}

// firstMismatch walks two trees in parallel and describes the first node
// outside an error subtree whose kind, range or child count differs.
func firstMismatch(a, b *sitter.Node) string {
	if a.Type() == "ERROR" || b.Type() == "ERROR" || a.IsMissing() || b.IsMissing() {
		return ""
	}
	if a.Type() != b.Type() || a.StartByte() != b.StartByte() || a.EndByte() != b.EndByte() {
		return fmt.Sprintf("%s [%d, %d) vs %s [%d, %d)",
			a.Type(), a.StartByte(), a.EndByte(), b.Type(), b.StartByte(), b.EndByte())
	}
	if a.ChildCount() != b.ChildCount() {
		return fmt.Sprintf("%s [%d, %d): %d vs %d children",
			a.Type(), a.StartByte(), a.EndByte(), a.ChildCount(), b.ChildCount())
	}
	for i := 0; i < int(a.ChildCount()); i++ {
		if where := firstMismatch(a.Child(i), b.Child(i)); where != "" {
			return where
		}
	}
	return ""
}

func TestCommentPrefix(t *testing.T) {
	d := newJS(t, "function hello() {\n  console.log(1);\n}")

	after, err := d.Edit(0, 0, "// ")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if after != 3 {
		t.Errorf("Edit returned %d, want 3", after)
	}
	checkSynced(t, d)

	if err := d.Reparse(); err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	node := highlight.New(nil).DescendantFor(d.Tree().RootNode(), 0, 3)
	if node == nil || node.Type() != "comment" {
		t.Fatalf("node at [0,3) = %v, want comment", node)
	}
	if node.StartByte() != 0 || node.EndByte() < 3 {
		t.Errorf("comment spans [%d, %d)", node.StartByte(), node.EndByte())
	}

	lines, err := d.RenderRange(0, 1)
	if err != nil {
		t.Fatalf("RenderRange: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if first := lines[0].Spans[0]; first.Kind != "comment" {
		t.Errorf("first span = %v, want comment", first)
	}
	if got := lines[0].Text(); got != "// function hello() {" {
		t.Errorf("line text = %q", got)
	}
}

func TestPlainDocument(t *testing.T) {
	d, err := New("ab", "t", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.State() != syntax.Unattached {
		t.Errorf("State() = %v", d.State())
	}

	after, err := d.Edit(1, 1, "X")
	if err != nil || after != 2 {
		t.Fatalf("Edit = %d, %v", after, err)
	}
	if d.Text() != "aXb" {
		t.Errorf("Text() = %q", d.Text())
	}

	lines, err := d.RenderRange(0, 1)
	if err != nil {
		t.Fatalf("RenderRange: %v", err)
	}
	if len(lines) != 1 || len(lines[0].Spans) != 1 {
		t.Fatalf("lines = %+v", lines)
	}
	if !lines[0].Plain() || lines[0].Text() != "aXb" {
		t.Errorf("line = %+v, want plain aXb", lines[0])
	}
	if d.SExpr() != "" || d.Tree() != nil {
		t.Error("plain document should have no tree")
	}
}

func TestDeletePastEnd(t *testing.T) {
	for _, d := range []*Document{
		mustNew(t, "ab", nil),
		newJS(t, "ab"),
	} {
		before := d.SExpr()
		_, err := d.Edit(0, 100, "")
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Edit(0, 100) = %v, want ErrOutOfRange", err)
		}
		var editErr *EditError
		if !errors.As(err, &editErr) || editErr.Len != 2 {
			t.Errorf("error detail = %v", err)
		}
		if d.Text() != "ab" || d.SExpr() != before {
			t.Errorf("state changed: %q %s", d.Text(), d.SExpr())
		}
	}
}

func mustNew(t *testing.T, content string, g *syntax.Grammar) *Document {
	t.Helper()
	d, err := New(content, "t", g)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestEditRejectsInvertedRange(t *testing.T) {
	d := mustNew(t, "hello", nil)
	if _, err := d.Edit(3, 1, "x"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Edit(3, 1) = %v", err)
	}
	if d.Text() != "hello" {
		t.Errorf("Text() = %q", d.Text())
	}
}

func TestGrammarErrorFallsBack(t *testing.T) {
	d, err := New("x = 1", "broken", &syntax.Grammar{Name: "broken"})
	if !errors.Is(err, syntax.ErrGrammar) {
		t.Fatalf("New error = %v, want ErrGrammar", err)
	}
	if d == nil {
		t.Fatal("document should be usable after a grammar error")
	}
	if d.State() != syntax.Unattached {
		t.Errorf("State() = %v", d.State())
	}
	if _, err := d.Edit(0, 0, "let "); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	lines, err := d.RenderRange(0, 1)
	if err != nil || len(lines) != 1 || !lines[0].Plain() || lines[0].Text() != "let x = 1" {
		t.Errorf("RenderRange = %+v, %v", lines, err)
	}
}

func TestPointEdits(t *testing.T) {
	d := mustNew(t, "ab\ncd", nil)

	p, err := d.InsertAt(Point{Row: 1, Column: 1}, "X")
	if err != nil || p != (Point{Row: 1, Column: 2}) || d.Text() != "ab\ncXd" {
		t.Fatalf("InsertAt = %v, %v; text %q", p, err, d.Text())
	}

	p, err = d.InsertAt(Point{Row: 0, Column: 2}, "1\n2")
	if err != nil || p != (Point{Row: 1, Column: 1}) || d.Text() != "ab1\n2\ncXd" {
		t.Fatalf("InsertAt newline = %v, %v; text %q", p, err, d.Text())
	}

	// Backward deletion crosses line boundaries.
	p, err = d.DeleteBefore(Point{Row: 2, Column: 0}, 2)
	if err != nil || p != (Point{Row: 1, Column: 0}) || d.Text() != "ab1\ncXd" {
		t.Fatalf("DeleteBefore = %v, %v; text %q", p, err, d.Text())
	}

	// And clamps at the start of the text.
	p, err = d.DeleteBefore(Point{Row: 0, Column: 1}, 10)
	if err != nil || p != (Point{Row: 0, Column: 0}) || d.Text() != "b1\ncXd" {
		t.Fatalf("DeleteBefore clamp = %v, %v; text %q", p, err, d.Text())
	}

	p, err = d.DeleteAfter(Point{Row: 0, Column: 1}, 2)
	if err != nil || p != (Point{Row: 0, Column: 1}) || d.Text() != "bcXd" {
		t.Fatalf("DeleteAfter = %v, %v; text %q", p, err, d.Text())
	}

	p, err = d.DeleteAfter(Point{Row: 0, Column: 2}, 100)
	if err != nil || p != (Point{Row: 0, Column: 2}) || d.Text() != "bc" {
		t.Fatalf("DeleteAfter clamp = %v, %v; text %q", p, err, d.Text())
	}

	for _, bad := range []Point{{Row: 0, Column: 3}, {Row: 4, Column: 0}} {
		if _, err := d.InsertAt(bad, "z"); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("InsertAt(%v) = %v", bad, err)
		}
		if _, err := d.DeleteBefore(bad, 1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("DeleteBefore(%v) = %v", bad, err)
		}
		if _, err := d.DeleteAfter(bad, 1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("DeleteAfter(%v) = %v", bad, err)
		}
	}
	if d.Text() != "bc" {
		t.Errorf("rejected edits changed text to %q", d.Text())
	}
}

func TestEditNormalizesLineEndings(t *testing.T) {
	d := mustNew(t, "", nil)
	after, err := d.Edit(0, 0, "a\r\nb\rc")
	if err != nil || after != 5 || d.Text() != "a\nb\nc" {
		t.Errorf("Edit = %d, %v; text %q", after, err, d.Text())
	}
	if d.LenLines() != 3 {
		t.Errorf("LenLines() = %d", d.LenLines())
	}
}

func TestEditKeepsTreeInSync(t *testing.T) {
	d := newJS(t, "let s = 'é';\nfoo(s);\n")

	edits := []struct {
		start, end CharOffset
		text       string
	}{
		{8, 11, "\"日本\""},
		{0, 0, "const x = 1;\n"},
		{13, 13, "// ✓ note\n"},
		{0, 13, ""},
		{0, 0, "/* open"},
		{0, 7, ""},
		{0, 0, "function f() {\n  return `t ${x}`;\n}\n"},
	}
	for _, e := range edits {
		if _, err := d.Edit(e.start, e.end, e.text); err != nil {
			t.Fatalf("Edit(%d, %d, %q): %v", e.start, e.end, e.text, err)
		}
		checkSynced(t, d)
	}
}

func TestRandomEditsStayInSync(t *testing.T) {
	statements := []string{
		"let a = 1;\n",
		"foo(bar, 'é');\n",
		"const s = \"日本\";\n",
		"// comment ✓\n",
		"if (a) { b(); }\n",
		"x = `t ${a}`;\n",
		"\n",
	}
	rng := rand.New(rand.NewSource(11))
	d := newJS(t, "")
	var model []string

	for i := 0; i < 150; i++ {
		snap := d.Snapshot()
		if len(model) == 0 || rng.Intn(3) > 0 {
			row := rng.Intn(len(model) + 1)
			at, err := snap.LineToChar(uint32(row))
			if err != nil {
				t.Fatalf("LineToChar(%d): %v", row, err)
			}
			s := statements[rng.Intn(len(statements))]
			if _, err := d.Edit(at, at, s); err != nil {
				t.Fatalf("insert: %v", err)
			}
			model = append(model[:row], append([]string{s}, model[row:]...)...)
		} else {
			row := rng.Intn(len(model))
			start, _ := snap.LineToChar(uint32(row))
			end, _ := snap.LineToChar(uint32(row + 1))
			if _, err := d.Edit(start, end, ""); err != nil {
				t.Fatalf("delete: %v", err)
			}
			model = append(model[:row], model[row+1:]...)
		}

		if got, want := d.Text(), strings.Join(model, ""); got != want {
			t.Fatalf("step %d: text %q, want %q", i, got, want)
		}
		checkSynced(t, d)
	}
}

func TestBrokenEditsStayInSync(t *testing.T) {
	fragments := []string{"(", "{", "}", "'", "`", "/*", "*/", "x", "é", ";\n", "=>"}
	rng := rand.New(rand.NewSource(23))
	d := newJS(t, "function f(a) {\n  return a + 1;\n}\nlet s = 'x';\n")
	model := []rune(d.Text())

	for i := 0; i < 200; i++ {
		at := rng.Intn(len(model) + 1)
		if len(model) > 0 && rng.Intn(3) == 0 {
			end := min(len(model), at+rng.Intn(4)+1)
			if _, err := d.Edit(CharOffset(at), CharOffset(end), ""); err != nil {
				t.Fatalf("step %d: delete: %v", i, err)
			}
			model = append(model[:at], model[end:]...)
		} else {
			f := []rune(fragments[rng.Intn(len(fragments))])
			if _, err := d.Edit(CharOffset(at), CharOffset(at), string(f)); err != nil {
				t.Fatalf("step %d: insert: %v", i, err)
			}
			model = append(model[:at], append(f, model[at:]...)...)
		}

		if got := d.Text(); got != string(model) {
			t.Fatalf("step %d: text %q, want %q", i, got, string(model))
		}
		checkSynced(t, d)
	}
}

func TestRenderRange(t *testing.T) {
	src := "let a = 1;\n\nfoo('x y');\n"
	d := newJS(t, src)

	lines, err := d.RenderRange(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Split(src, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if l.Row != uint32(i) || l.Text() != want[i] {
			t.Errorf("line %d = row %d %q, want %q", i, l.Row, l.Text(), want[i])
		}
	}
	if len(lines[1].Spans) != 0 || len(lines[3].Spans) != 0 {
		t.Error("empty lines should have no spans")
	}

	var str highlight.Span
	for _, s := range lines[2].Spans {
		if s.Kind == "string" {
			str = s
		}
	}
	if str.Text != "'x y'" {
		t.Errorf("string span = %v", str)
	}

	lines, err = d.RenderRange(2, 1)
	if err != nil || len(lines) != 1 || lines[0].Row != 2 {
		t.Errorf("RenderRange(2, 1) = %+v, %v", lines, err)
	}
	lines, err = d.RenderRange(0, 0)
	if err != nil || len(lines) != 0 {
		t.Errorf("RenderRange(0, 0) = %+v, %v", lines, err)
	}
	if _, err := d.RenderRange(4, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("RenderRange past end = %v", err)
	}
}

func TestRenderRangeMultilineToken(t *testing.T) {
	d := newJS(t, "/* one\ntwo */ x;\n")

	lines, err := d.RenderRange(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	spans := lines[0].Spans
	if len(spans) == 0 || spans[0].Kind != "comment" || spans[0].Text != "two */" {
		t.Errorf("spans = %v, want the comment tail first", spans)
	}
}

func TestRenderView(t *testing.T) {
	d := newJS(t, "let s = 'héllo';\nx;\n")

	lines, err := d.RenderView(0, 2, 9, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if got := lines[0].Text(); got != "héll" {
		t.Errorf("window text = %q", got)
	}
	if len(lines[0].Spans) != 1 || lines[0].Spans[0].Kind != "string" {
		t.Errorf("window spans = %v, want one clamped string", lines[0].Spans)
	}
	if len(lines[1].Spans) != 0 {
		t.Errorf("short line should be empty in window, got %v", lines[1].Spans)
	}

	plain := mustNew(t, "hello world", nil)
	lines, err = plain.RenderView(0, 1, 6, 100)
	if err != nil || lines[0].Text() != "world" {
		t.Errorf("plain RenderView = %+v, %v", lines, err)
	}
}

func TestHighlightRange(t *testing.T) {
	d := newJS(t, "a = 'é';")

	spans, err := d.HighlightRange(0, 9)
	if err != nil {
		t.Fatal(err)
	}
	if highlight.Join(spans) != "a = 'é';" {
		t.Errorf("spans = %v", spans)
	}

	if _, err := d.HighlightRange(0, 6); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("range ending inside a code point = %v", err)
	}
	if _, err := d.HighlightRange(5, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("inverted range = %v", err)
	}
	if _, err := d.HighlightRange(0, 50); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("range past end = %v", err)
	}
}

func TestRangesInsideLiterals(t *testing.T) {
	d := newJS(t, "const t = `first\nmiddle line\nlast`;\nx = \"abc // def\";\n")

	lines, err := d.RenderRange(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if spans := lines[0].Spans; len(spans) != 1 || spans[0].Kind != "template_string" || spans[0].Text != "middle line" {
		t.Errorf("RenderRange inside template = %v", spans)
	}

	spans, err := d.HighlightRange(42, 46)
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 || spans[0].Kind != "string" || spans[0].Text != "bc /" {
		t.Errorf("HighlightRange inside string = %v", spans)
	}

	lines, err = d.RenderView(3, 1, 6, 6)
	if err != nil {
		t.Fatal(err)
	}
	if spans := lines[0].Spans; len(spans) != 1 || spans[0].Kind != "string" || spans[0].Text != "bc // " {
		t.Errorf("RenderView inside string = %v", spans)
	}
}

func TestAttachDetach(t *testing.T) {
	d := mustNew(t, "let a = 'b';", nil)

	if err := d.Attach(javascript(t)); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if d.State() != syntax.Synced || d.Grammar().Name != "javascript" {
		t.Errorf("after Attach: %v %v", d.State(), d.Grammar())
	}
	checkSynced(t, d)

	if err := d.Attach(nil); !errors.Is(err, syntax.ErrGrammar) {
		t.Errorf("Attach(nil) = %v", err)
	}
	if d.State() != syntax.Synced {
		t.Error("failed Attach should keep the previous grammar")
	}

	d.Detach()
	if d.State() != syntax.Unattached || d.SExpr() != "" {
		t.Error("Detach should drop the tree")
	}
	lines, _ := d.RenderRange(0, 1)
	if !lines[0].Plain() {
		t.Errorf("detached render = %v", lines[0].Spans)
	}
}

func TestAtomicKindsOption(t *testing.T) {
	d, err := New("a = 'x';", "t.js", javascript(t), WithAtomicKinds([]string{"comment"}), WithTabWidth(8))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if d.TabWidth() != 8 {
		t.Errorf("TabWidth() = %d", d.TabWidth())
	}

	lines, err := d.RenderRange(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range lines[0].Spans {
		if s.Kind == "string" {
			t.Errorf("string emitted whole although not atomic: %v", lines[0].Spans)
		}
	}
}

func TestConcurrentUse(t *testing.T) {
	d := newJS(t, "")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if _, err := d.Edit(0, 0, "f(1);\n"); err != nil {
					t.Errorf("Edit: %v", err)
					return
				}
				if _, err := d.RenderRange(0, 5); err != nil {
					t.Errorf("RenderRange: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := d.LenLines(); got != 101 {
		t.Errorf("LenLines() = %d, want 101", got)
	}
	checkSynced(t, d)
}
