// Package rope provides an immutable rope used as the backing store for
// editor text.
//
// The rope is a B+ tree whose leaves hold bounded UTF-8 chunks and whose
// internal nodes cache aggregated metrics (bytes, characters, newlines).
// Every coordinate conversion between byte offsets, character offsets and
// line numbers is answered by a single root-to-leaf descent, so all of them
// are O(log n).
//
// Operations never modify a rope in place; Insert, Delete and Replace return
// a new Rope that shares unchanged subtrees with the original. Holding on to
// an old Rope value is therefore a cheap snapshot.
//
//	r := rope.FromString("héllo\nworld")
//	at, _ := r.CharToByte(5) // 6, "é" is two bytes
//	r = r.Insert(at, ",")    // "héllo,\nworld"
//	b, _ := r.LineToByte(1)  // 8
//	c, _ := r.ByteToChar(b)  // 7
//
// Lines are separated by '\n' only. Callers normalize other line endings
// before text reaches the rope.
package rope
