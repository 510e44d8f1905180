package domtree

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// pastePolicy sanitizes externally-sourced HTML before it is ever turned
// into domundo nodes, the way a real editor must treat paste/drop content
// as untrusted (SPEC_FULL.md §4).
var pastePolicy = bluemonday.UGCPolicy()

// ParseFragment sanitizes rawHTML and parses it into a list of detached
// domtree nodes suitable for use as insert Change content, as if parsed in
// the context of a <div> (consistent with the spec's DIV-container
// scenarios in spec.md §8).
func ParseFragment(rawHTML string) ([]*Node, error) {
	clean := pastePolicy.Sanitize(rawHTML)

	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(clean), context)
	if err != nil {
		return nil, err
	}

	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, fromHTMLNode(n))
	}
	return out, nil
}

func fromHTMLNode(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return NewText(n.Data)
	default:
		dt := NewElement(n.Data)
		for _, a := range n.Attr {
			dt.Attrs = append(dt.Attrs, Attribute{Name: a.Key, NS: a.Namespace, Value: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode, html.ElementNode:
				AppendChild(dt, fromHTMLNode(c))
			}
		}
		return dt
	}
}

// RenderHTML serializes n back to an HTML string, for audit logging
// (auditlog converts this to Markdown) and for round-tripping parsed
// fragments in tests.
func RenderHTML(n *Node) string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	if n.Type == TextNode {
		b.WriteString(html.EscapeString(n.Text))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeHTML(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
}
