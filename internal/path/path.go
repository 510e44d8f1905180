// Package path implements the Path/Boundary codec (spec.md §4.A):
// encoding and decoding a position in the tree as a list of
// (index, nodeName) steps relative to a container.
package path

import (
	"fmt"

	"github.com/hazyhaar/domundo/internal/domtree"
)

// Step is one element of a Path: a normalized child index together with
// the expected node name at that position, or a text offset when
// NodeName is domtree.TextNodeName.
type Step struct {
	Offset   int
	NodeName string
}

// Path is an ordered, container-relative route to a Boundary (spec.md §3).
type Path []Step

// Equal reports whether p and other describe the same route.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// FromBoundary encodes boundary (relative to container) into a Path,
// following the text-prefix rule in spec.md §3: if text precedes the
// boundary, the final step is a text step whose offset is the summed
// length of the preceding text-node run, even when the node after the
// boundary isn't text.
//
// Every non-final step's NodeName names the container being descended
// *out of* at that level (symmetric with ToBoundary's "asserting each
// step's nodeName matches the current node's name"); the final step names
// the element the boundary directly sits within, or domtree.TextNodeName
// when text precedes the boundary.
func FromBoundary(container *domtree.Node, boundary domtree.Boundary) Path {
	b := domtree.NormalizeBoundary(boundary)

	// elem is the element the boundary directly resides within: its
	// parent when the (normalized) boundary sits inside a text node,
	// itself otherwise.
	elem := b.Node
	if domtree.IsTextNode(elem) {
		elem = elem.Parent
	}

	var chain []*domtree.Node
	for n := elem; n != container; n = n.Parent {
		if n == nil {
			panic("path: boundary's container ancestor not found")
		}
		chain = prepend(chain, n)
	}
	chain = prepend(chain, container)

	steps := make(Path, 0, len(chain))
	for i := 0; i < len(chain)-1; i++ {
		steps = append(steps, Step{
			Offset:   domtree.NormalizedNodeIndex(chain[i+1]),
			NodeName: chain[i].Name,
		})
	}
	steps = append(steps, finalStep(elem, b))
	return steps
}

func prepend(chain []*domtree.Node, n *domtree.Node) []*domtree.Node {
	out := make([]*domtree.Node, 0, len(chain)+1)
	out = append(out, n)
	return append(out, chain...)
}

// finalStep computes the last step of a path: b is the normalized boundary
// and elem is the element it directly resides within (or, when text
// precedes it, the element containing that text run).
func finalStep(elem *domtree.Node, b domtree.Boundary) Step {
	if precedingText := domtree.PrecedingTextLength(b); precedingText > 0 {
		return Step{Offset: precedingText, NodeName: domtree.TextNodeName}
	}
	nodeAfter := domtree.NodeAfter(b)
	if nodeAfter == nil {
		return Step{Offset: domtree.NormalizedNumChildren(elem), NodeName: elem.Name}
	}
	return Step{Offset: domtree.NormalizedNodeIndex(nodeAfter), NodeName: elem.Name}
}

// ToBoundary decodes path (relative to container) back into a Boundary,
// descending step by step and asserting each step's NodeName matches the
// live node (spec.md §4.A). Panics on a contract violation: a name
// mismatch or a zero text offset.
func ToBoundary(container *domtree.Node, p Path) domtree.Boundary {
	node := container
	for i, step := range p {
		last := i == len(p)-1
		if last && step.NodeName == domtree.TextNodeName {
			return resolveTextStep(node, step)
		}
		if node.Name != step.NodeName {
			panic(fmt.Sprintf("path: step name mismatch: path expects %q, tree has %q", step.NodeName, node.Name))
		}
		if last {
			return domtree.Boundary{Node: node, Offset: domtree.RealFromNormalizedIndex(node, step.Offset)}
		}
		child := domtree.NormalizedNthChild(node, step.Offset)
		if child == nil {
			panic(fmt.Sprintf("path: no normalized child at index %d of %q", step.Offset, node.Name))
		}
		node = child
	}
	return domtree.Boundary{Node: node, Offset: 0}
}

// resolveTextStep walks the adjacent-text run under node's container,
// consuming offsets until the target text position is reached. If it
// lands exactly at the end of a text node, the equivalent parent-offset
// boundary right after that node is returned instead (spec.md §4.A).
func resolveTextStep(container *domtree.Node, step Step) domtree.Boundary {
	if step.Offset == 0 {
		panic("path: text offset 0 is not addressable")
	}
	remaining := step.Offset
	n := container.FirstChild
	for n != nil && domtree.IsEmptyTextNode(n) {
		n = n.NextSibling
	}
	for n != nil && domtree.IsTextNode(n) {
		length := len([]rune(n.Text))
		if remaining <= length {
			if remaining == length {
				// Land on the element boundary right after this text node,
				// whether the run ends here or more text follows.
				return domtree.Boundary{Node: container, Offset: domtree.NodeIndex(n) + 1}
			}
			return domtree.Boundary{Node: n, Offset: remaining}
		}
		remaining -= length
		n = n.NextSibling
		for n != nil && domtree.IsEmptyTextNode(n) {
			n = n.NextSibling
		}
	}
	panic("path: text step offset exceeds text-node run length")
}

// BeforeNode returns the path to the boundary immediately preceding node,
// relative to container.
func BeforeNode(container, node *domtree.Node) Path {
	return FromBoundary(container, domtree.BeforeNode(node))
}
