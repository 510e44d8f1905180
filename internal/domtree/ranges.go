package domtree

// Range is a live, mutable start/end boundary pair (spec.md §1's external
// "Ranges/Range abstraction") that the Applier keeps valid across
// structural edits: insertion and removal adjust any Range whose boundary
// is affected in place.
type Range struct {
	Start, End Boundary
}

// Ranges is the open set of live ranges the Applier must preserve while it
// mutates the tree (selection, other callers' bookmarks, …).
type Ranges []*Range

// SetRangeFromBoundaries points r at (start, end).
func SetRangeFromBoundaries(r *Range, start, end Boundary) {
	r.Start = start
	r.End = end
}

// NodeAtBoundary resolves b to the node the boundary logically sits
// against: the node after it, falling back to the node before when b is at
// the end of its container.
func NodeAtBoundary(b Boundary) *Node {
	if n := NodeAfter(b); n != nil {
		return n
	}
	return NodeBefore(b)
}

// adjustForInsert shifts a boundary that points into container at or after
// the insertion point by delta child slots.
func adjustForInsert(b *Boundary, container *Node, at int, delta int) {
	if b.Node == container && b.Offset >= at {
		b.Offset += delta
	}
}

// InsertNodeAtBoundary inserts node at boundary b, keeping every range in
// ranges valid, and returns the boundary immediately after the inserted
// node. When b is inside a text node, a text node is spliced into that
// text if mergeText is set; otherwise the text node is split at b and node
// is inserted after its first half.
func InsertNodeAtBoundary(b Boundary, node *Node, mergeText bool, ranges Ranges) Boundary {
	if IsTextNode(b.Node) {
		parent := b.Node.Parent
		at := NodeIndex(b.Node)
		if mergeText && IsTextNode(node) {
			// Splice the inserted text directly into the existing text node.
			runes := []rune(b.Node.Text)
			prefix := string(runes[:b.Offset])
			suffix := string(runes[b.Offset:])
			b.Node.Text = prefix + node.Text + suffix
			newOffset := b.Offset + len([]rune(node.Text))
			return Boundary{Node: b.Node, Offset: newOffset}
		}
		SplitBoundary(&b, ranges)
		// b.Node's text now ends exactly at the split point; insert node
		// right after it.
		InsertBefore(parent, node, b.Node.NextSibling)
		for _, r := range ranges {
			adjustForInsert(&r.Start, parent, at+1, 1)
			adjustForInsert(&r.End, parent, at+1, 1)
		}
		return Boundary{Node: parent, Offset: at + 1}
	}

	ref := NodeAfter(b)
	InsertBefore(b.Node, node, ref)
	for _, r := range ranges {
		adjustForInsert(&r.Start, b.Node, b.Offset, 1)
		adjustForInsert(&r.End, b.Node, b.Offset, 1)
	}
	return Boundary{Node: b.Node, Offset: b.Offset + 1}
}

// SplitBoundary splits the text node b.Node at b.Offset into two text
// nodes (doing nothing when b is already at a text-node edge or is an
// element boundary), preserving ranges whose boundary lies inside the
// split node.
func SplitBoundary(b *Boundary, ranges Ranges) {
	if !IsTextNode(b.Node) {
		return
	}
	runes := []rune(b.Node.Text)
	if b.Offset <= 0 || b.Offset >= len(runes) {
		return
	}
	prefix := string(runes[:b.Offset])
	suffix := string(runes[b.Offset:])
	original := b.Node
	suffixNode := NewText(suffix)
	InsertBefore(original.Parent, suffixNode, original.NextSibling)
	original.Text = prefix

	at := NodeIndex(original)
	for _, r := range ranges {
		retarget := func(bd *Boundary) {
			if bd.Node == original && bd.Offset > len([]rune(prefix)) {
				bd.Node = suffixNode
				bd.Offset -= len([]rune(prefix))
			} else if bd.Node == original.Parent && bd.Offset > at {
				bd.Offset++
			}
		}
		retarget(&r.Start)
		retarget(&r.End)
	}

	*b = Boundary{Node: original, Offset: len([]rune(prefix))}
}

// RemovePreservingRanges removes node from its parent, first relocating
// any range boundary that pointed inside node (or at node itself) to the
// equivalent boundary in node's former position.
func RemovePreservingRanges(node *Node, ranges Ranges) {
	parent := node.Parent
	at := NodeIndex(node)
	for _, r := range ranges {
		retarget := func(b *Boundary) {
			if Contains(node, b.Node) {
				b.Node, b.Offset = parent, at
				return
			}
			if b.Node == parent && b.Offset > at {
				b.Offset--
			}
		}
		retarget(&r.Start)
		retarget(&r.End)
	}
	RemoveChild(parent, node)
}

// JoinTextNode merges textNode with an immediately adjacent text-node
// sibling (preferring the previous sibling, matching the normalizing
// behavior the rest of the package assumes), updating ranges accordingly.
// Empty text nodes are pruned entirely.
func JoinTextNode(textNode *Node, ranges Ranges) {
	if textNode == nil || !IsTextNode(textNode) {
		return
	}
	if textNode.Text == "" {
		RemovePreservingRanges(textNode, ranges)
		return
	}
	if prev := textNode.PrevSibling; prev != nil && IsTextNode(prev) {
		mergeTextNodes(prev, textNode, ranges)
		textNode = prev
	}
	if next := textNode.NextSibling; next != nil && IsTextNode(next) {
		mergeTextNodes(textNode, next, ranges)
	}
}

func mergeTextNodes(first, second *Node, ranges Ranges) {
	offset := len([]rune(first.Text))
	first.Text += second.Text
	for _, r := range ranges {
		retarget := func(b *Boundary) {
			if b.Node == second {
				b.Node = first
				b.Offset += offset
			}
		}
		retarget(&r.Start)
		retarget(&r.End)
	}
	RemovePreservingRanges(second, ranges)
}
