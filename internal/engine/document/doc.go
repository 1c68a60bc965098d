// Package document ties a text store to an optional syntax tree.
//
// A Document owns a buffer.Store and, when a grammar is attached, a
// syntax.Synchronizer whose tree is always the parse of the current text.
// Every mutation goes through Edit, which validates the range, builds the
// tree-sitter edit from the text before the change, reparses, and only then
// commits text and tree together. A failed edit leaves both untouched.
//
// Documents are safe for concurrent use. Each operation holds the
// document's lock for its whole duration, so a render never observes a
// document in the middle of an edit.
//
//	doc, err := document.New("function hello() {}", "hello.js", grammar)
//	if err != nil {
//		// grammar failed to attach; doc is usable as plain text
//	}
//	doc.Edit(0, 0, "// ")
//	lines, _ := doc.RenderRange(0, 1)
package document
