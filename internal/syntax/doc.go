// Package syntax keeps a tree-sitter syntax tree synchronized with an
// edited text.
//
// A Synchronizer starts Unattached. Attach selects a Grammar and parses the
// full text; afterwards every edit is reported through ApplyEdit with an
// Edit descriptor built from the text before the mutation, and the tree is
// patched and incrementally reparsed against the text after it. Between
// calls the tree always equals a from-scratch parse of the current text.
//
// Grammars are looked up in a Registry by name or file extension.
// DefaultRegistry holds the built-in grammars from go-tree-sitter.
package syntax
