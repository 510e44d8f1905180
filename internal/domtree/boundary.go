package domtree

// Boundary is a position between children of an element, or within a text
// node: (node, offset). For an element node, offset is a real child index.
// For a text node, offset is a rune offset into Text.
type Boundary struct {
	Node   *Node
	Offset int
}

// BeforeNode returns the boundary immediately preceding node among its
// siblings.
func BeforeNode(node *Node) Boundary {
	return Boundary{Node: node.Parent, Offset: NodeIndex(node)}
}

// NodeAfter returns the node immediately following b, or nil if b is at
// the end of its container (or inside a text node).
func NodeAfter(b Boundary) *Node {
	if IsTextNode(b.Node) {
		return nil
	}
	i := 0
	for c := b.Node.FirstChild; c != nil; c = c.NextSibling {
		if i == b.Offset {
			return c
		}
		i++
	}
	return nil
}

// AfterNode returns the boundary immediately following node among its
// siblings. Used to recover a deleted record's insertion point from its
// still-live prevSibling (spec.md §4.E).
func AfterNode(node *Node) Boundary {
	if node.NextSibling != nil {
		return BeforeNode(node.NextSibling)
	}
	return Boundary{Node: node.Parent, Offset: NodeLength(node.Parent)}
}

// NodeBefore returns the node immediately preceding b, or nil.
func NodeBefore(b Boundary) *Node {
	if IsTextNode(b.Node) {
		return nil
	}
	if b.Offset <= 0 {
		return nil
	}
	n := NodeAfter(b)
	if n != nil {
		return n.PrevSibling
	}
	return b.Node.LastChild
}

// AtEnd reports whether b sits at the end of its container: the last
// position in a text node, or past the last child of an element.
func AtEnd(b Boundary) bool {
	if IsTextNode(b.Node) {
		return b.Offset == len([]rune(b.Node.Text))
	}
	return b.Offset >= NodeLength(b.Node)
}

// PrecedingTextLength sums the rune length of the contiguous text-node run
// ending at b, when b lies inside or right after text. Returns 0 when b is
// not preceded by text.
func PrecedingTextLength(b Boundary) int {
	if IsTextNode(b.Node) {
		total := b.Offset
		n := b.Node.PrevSibling
		for n != nil && IsTextNode(n) {
			total += len([]rune(n.Text))
			n = n.PrevSibling
		}
		return total
	}
	// Element boundary: sum the text run immediately before offset, if any.
	n := NodeBefore(b)
	total := 0
	for n != nil && IsTextNode(n) {
		total += len([]rune(n.Text))
		n = n.PrevSibling
	}
	return total
}

// NormalizeBoundary canonicalizes b: collapses a position at offset 0 of a
// text node, or anywhere in an empty text node, to the boundary in the
// parent immediately before that text node. Element boundaries are
// returned unchanged.
func NormalizeBoundary(b Boundary) Boundary {
	if IsTextNode(b.Node) {
		if IsEmptyTextNode(b.Node) {
			return NormalizeBoundary(BeforeNode(b.Node))
		}
		if b.Offset == 0 {
			return NormalizeBoundary(BeforeNode(b.Node))
		}
		return b
	}
	return b
}

// NextWhile walks siblings starting at n while pred holds, returning the
// first node for which pred is false (or nil at the end of the list).
func NextWhile(n *Node, pred func(*Node) bool) *Node {
	for n != nil && pred(n) {
		n = n.NextSibling
	}
	return n
}

// PrevWhile is NextWhile's mirror, walking PrevSibling.
func PrevWhile(n *Node, pred func(*Node) bool) *Node {
	for n != nil && pred(n) {
		n = n.PrevSibling
	}
	return n
}

// Start returns r's start boundary. End returns r's end boundary.
func Start(r *Range) Boundary { return r.Start }
func End(r *Range) Boundary   { return r.End }
