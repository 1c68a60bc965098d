// Package editor keeps the set of open documents and the panes that view
// them.
//
// The Editor is the buffer registry: it opens files, choosing a grammar by
// extension, hands out buffers under stable UUID handles and tracks the
// active one. A Pane is a cursor and a scroll position over a buffer; any
// number of panes may share a buffer, and every mutation they make goes
// through the document's edit API.
package editor
