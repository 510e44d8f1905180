package change

import "github.com/hazyhaar/domundo/internal/domtree"

// FromLiveNode deep-clones a live node into an owned Node value, severing
// any alias to the live tree (spec.md §3 "Ownership").
func FromLiveNode(n *domtree.Node) Node {
	if domtree.IsTextNode(n) {
		return Node{IsText: true, Name: domtree.TextNodeName, Text: n.Text}
	}
	out := Node{Name: n.Name, NS: n.Namespace}
	for _, a := range n.Attrs {
		out.Attrs = append(out.Attrs, AttrUpdateValue{Name: a.Name, NS: a.NS, Value: a.Value})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.Kids = append(out.Kids, FromLiveNode(c))
	}
	return out
}

// Materialize builds a fresh, detached live node from an owned Node value.
func Materialize(n Node) *domtree.Node {
	if n.IsText {
		return domtree.NewText(n.Text)
	}
	live := domtree.NewElement(n.Name)
	live.Namespace = n.NS
	for _, a := range n.Attrs {
		live.Attrs = append(live.Attrs, domtree.Attribute{Name: a.Name, NS: a.NS, Value: a.Value})
	}
	for _, k := range n.Kids {
		domtree.AppendChild(live, Materialize(k))
	}
	return live
}
