package domundo

import "github.com/hazyhaar/domundo/internal/domtree"

// SetAttribute sets node's name/ns attribute to value, recording an
// update-attr entry.
func (c *Context) SetAttribute(node *domtree.Node, ns, name, value string) ChangeSet {
	return c.Do(Meta{Type: "format"}, func() {
		old, _ := domtree.GetAttrNS(node, ns, name)
		domtree.SetAttrNS(node, ns, name, value)
		if live := c.liveObserver(); live != nil {
			live.NotifyUpdateAttr(node, name, ns, old, value)
		}
	})
}

// DeleteRange removes every node between start and end (both element
// boundaries under the same parent), recording a delete entry.
func (c *Context) DeleteRange(start, end domtree.Boundary) ChangeSet {
	return c.Do(Meta{Type: "delete"}, func() {
		live := c.liveObserver()
		stop := domtree.NodeAfter(end)
		for {
			n := domtree.NodeAfter(start)
			if n == nil || n == stop {
				return
			}
			target, prevSibling := n.Parent, n.PrevSibling
			domtree.RemoveChild(target, n)
			if live != nil {
				live.NotifyDelete(n, target, prevSibling)
			}
		}
	})
}

// InsertText inserts text as its own new text node at boundary and tags
// the resulting entry with meta (typically {Type: "typing"} via
// TypeText). Unlike a browser's text-node splicing, each call's content
// always lands as a fresh node rather than being merged into an existing
// text run: normalized indexing treats an adjacent run of text nodes as
// one regardless, and this keeps every typing entry a single insert
// Change — exactly the shape history's combine() coalesces against
// maxCombineChars.
func (c *Context) InsertText(boundary domtree.Boundary, text string, meta Meta) ChangeSet {
	return c.Do(meta, func() {
		node := domtree.NewText(text)
		domtree.InsertNodeAtBoundary(boundary, node, false, c.ranges)
		if live := c.liveObserver(); live != nil {
			live.NotifyInsert(node)
		}
	})
}

// TypeText is InsertText tagged as typing, making it eligible for
// maxCombineChars coalescing in history.
func (c *Context) TypeText(boundary domtree.Boundary, text string) ChangeSet {
	return c.InsertText(boundary, text, Meta{Type: "typing"})
}
