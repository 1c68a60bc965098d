package rope

import (
	"slices"
	"strings"
)

// Tree shape limits.
const (
	// MaxChildren is the maximum children per internal node.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node of the rope B+ tree. Leaves (height 0) hold chunks;
// internal nodes hold children plus a parallel slice of child summaries.
type Node struct {
	height  int
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

func newLeafNode(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode(nil)
	}

	n := &Node{
		height:         children[0].height + 1,
		children:       children,
		childSummaries: make([]TextSummary, len(children)),
	}
	for i, child := range children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
	return n
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() ByteOffset {
	return n.summary.Bytes
}

func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.data)
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange writes the bytes in [start, end) of this subtree.
func (n *Node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	var pos ByteOffset
	if n.IsLeaf() {
		for _, c := range n.chunks {
			cEnd := pos + ByteOffset(c.Len())
			if cEnd > start && pos < end {
				lo := int(max(start, pos) - pos)
				hi := int(min(end, cEnd) - pos)
				sb.WriteString(c.data[lo:hi])
			}
			if cEnd >= end {
				return
			}
			pos = cEnd
		}
		return
	}

	for i, child := range n.children {
		cEnd := pos + n.childSummaries[i].Bytes
		if cEnd > start && pos < end {
			lo := max(start, pos) - pos
			hi := min(end, cEnd) - pos
			child.appendRange(sb, lo, hi)
		}
		if cEnd >= end {
			return
		}
		pos = cEnd
	}
}

// split returns nodes holding [0, offset) and [offset, Len()).
func (n *Node) split(offset ByteOffset) (*Node, *Node) {
	if offset == 0 {
		return newLeafNode(nil), n
	}
	if offset >= n.Len() {
		return n, newLeafNode(nil)
	}

	if n.IsLeaf() {
		var left, right []Chunk
		var pos ByteOffset
		for _, c := range n.chunks {
			cEnd := pos + ByteOffset(c.Len())
			switch {
			case cEnd <= offset:
				left = append(left, c)
			case pos >= offset:
				right = append(right, c)
			default:
				l, r := c.Split(int(offset - pos))
				left = append(left, l)
				right = append(right, r)
			}
			pos = cEnd
		}
		return newLeafNode(left), newLeafNode(right)
	}

	var pos ByteOffset
	for i, child := range n.children {
		cEnd := pos + n.childSummaries[i].Bytes
		if offset == cEnd {
			return buildNodeFromChildren(n.children[:i+1]), buildNodeFromChildren(n.children[i+1:])
		}
		if offset < cEnd {
			l, r := child.split(offset - pos)
			left := concat(buildNodeFromChildren(n.children[:i]), l)
			right := concat(r, buildNodeFromChildren(n.children[i+1:]))
			return left, right
		}
		pos = cEnd
	}
	return n, newLeafNode(nil)
}

// buildNodeFromChildren groups children of equal height into a balanced
// stack of internal nodes. Every internal node gets at least two
// children, so height stays logarithmic in the number of leaves.
func buildNodeFromChildren(children []*Node) *Node {
	switch {
	case len(children) == 0:
		return newLeafNode(nil)
	case len(children) == 1:
		return children[0]
	case len(children) <= MaxChildren:
		return newInternalNode(slices.Clone(children))
	}

	groups := (len(children) + MaxChildren - 1) / MaxChildren
	parents := make([]*Node, 0, groups)
	for g := 0; g < groups; g++ {
		lo := g * len(children) / groups
		hi := (g + 1) * len(children) / groups
		parents = append(parents, newInternalNode(slices.Clone(children[lo:hi])))
	}
	return buildNodeFromChildren(parents)
}

// concat joins two subtrees. The shorter tree is merged into the facing
// spine of the taller one; the result grows by one level only when the
// root overflows.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode(nil)
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	nodes := join(left, right)
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternalNode(nodes)
}

// join merges two non-empty subtrees and returns one or two nodes with the
// height of the taller input. Never modifies its arguments.
func join(left, right *Node) []*Node {
	if left.IsLeaf() && right.IsLeaf() {
		return joinLeaves(left, right)
	}

	var children []*Node
	switch {
	case left.height > right.height:
		last := len(left.children) - 1
		children = append(children, left.children[:last]...)
		children = append(children, join(left.children[last], right)...)
	case left.height < right.height:
		children = append(children, join(left, right.children[0])...)
		children = append(children, right.children[1:]...)
	default:
		last := len(left.children) - 1
		children = append(children, left.children[:last]...)
		children = append(children, join(left.children[last], right.children[0])...)
		children = append(children, right.children[1:]...)
	}
	if len(children) <= MaxChildren {
		return []*Node{newInternalNode(children)}
	}
	mid := len(children) / 2
	return []*Node{
		newInternalNode(slices.Clone(children[:mid])),
		newInternalNode(slices.Clone(children[mid:])),
	}
}

// joinLeaves concatenates the chunks of two leaves, coalescing the chunks
// at the seam when they fit in one.
func joinLeaves(left, right *Node) []*Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)
	rest := right.chunks
	if n := len(chunks); n > 0 && len(rest) > 0 && chunks[n-1].Len()+rest[0].Len() <= MaxChunkSize {
		chunks[n-1] = NewChunk(chunks[n-1].data + rest[0].data)
		rest = rest[1:]
	}
	chunks = append(chunks, rest...)

	if len(chunks) <= MaxChunksPerLeaf {
		return []*Node{newLeafNode(chunks)}
	}
	mid := len(chunks) / 2
	return []*Node{
		newLeafNode(slices.Clone(chunks[:mid])),
		newLeafNode(slices.Clone(chunks[mid:])),
	}
}

// seek descends to the chunk selected by inside, which reports whether the
// target lies within a span given the summary of everything before it.
// It returns the chunk and the summary of all text preceding it.
func (n *Node) seek(inside func(before, span TextSummary) bool) (Chunk, TextSummary, bool) {
	var before TextSummary
	node := n
	for !node.IsLeaf() {
		found := false
		for i, s := range node.childSummaries {
			if inside(before, s) {
				node = node.children[i]
				found = true
				break
			}
			before = before.Add(s)
		}
		if !found {
			return Chunk{}, before, false
		}
	}

	for _, c := range node.chunks {
		if inside(before, c.summary) {
			return c, before, true
		}
		before = before.Add(c.summary)
	}
	return Chunk{}, before, false
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}
