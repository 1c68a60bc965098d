// Package buffer provides the text store of a document: a rope-backed text
// with code point, byte and line coordinates kept consistent.
//
// Positions exposed to callers are character offsets (Unicode code points).
// Byte offsets are available for consumers that index UTF-8 directly, such
// as parsers. Every conversion is O(log n) on the underlying rope and
// rejects input outside the text with an error matching ErrOutOfRange;
// byte offsets that fall inside a multi-byte code point are rejected too.
//
// Lines are separated by '\n' only. CRLF and lone CR are normalized to LF
// when text enters the store.
//
//	s := buffer.FromString("héllo\nworld")
//	_ = s.Insert(5, ",")       // "héllo,\nworld"
//	row, _ := s.CharToLine(7)  // 1
//	b, _ := s.CharToByte(7)    // 8
//	line, _ := s.Line(1)       // "world"
//
// Snapshot returns a read-only view that stays valid while the store keeps
// changing. A Store itself is owned by one document and is not safe for
// concurrent mutation.
package buffer
