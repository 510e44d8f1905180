// Package domtreetest provides small tree-building helpers for tests,
// standing in for the browser fixtures domwatch's tests drove through a
// real headless tab (there is no browser here to build a DOM from).
package domtreetest

import "github.com/hazyhaar/domundo/internal/domtree"

// Elem builds an element node named name with the given children attached
// in order.
func Elem(name string, children ...*domtree.Node) *domtree.Node {
	n := domtree.NewElement(name)
	for _, c := range children {
		domtree.AppendChild(n, c)
	}
	return n
}

// Text builds a detached text node.
func Text(s string) *domtree.Node {
	return domtree.NewText(s)
}

// Attr sets an attribute on n (no namespace) and returns n, for inline
// construction.
func Attr(n *domtree.Node, name, value string) *domtree.Node {
	domtree.SetAttrNS(n, "", name, value)
	return n
}
