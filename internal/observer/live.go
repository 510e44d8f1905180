package observer

import (
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/normalize"
)

// Live is the instrumented-mutation Observer variant: callers that edit
// the tree through domundo's own mutation entry points report each edit
// via Notify*; there is no real browser MutationObserver to listen to, so
// this stands in for it (spec.md §1's external "Observer" abstraction).
// Grounded on domwatch's live listener plumbing and its debounce/dedup
// coalescing of repeated updates to the same node.
type Live struct {
	observing  bool
	moves      []normalize.Move
	updateAttr map[*domtree.Node]normalize.UpdateAttrs
	updateText map[*domtree.Node]string
}

// NewLive builds a Live observer, initially not observing.
func NewLive() *Live {
	return &Live{
		updateAttr: map[*domtree.Node]normalize.UpdateAttrs{},
		updateText: map[*domtree.Node]string{},
	}
}

func (l *Live) ObserveAll() { l.observing = true }
func (l *Live) Disconnect() { l.observing = false }

func (l *Live) DiscardChanges() {
	l.moves = nil
	l.updateAttr = map[*domtree.Node]normalize.UpdateAttrs{}
	l.updateText = map[*domtree.Node]string{}
}

func (l *Live) TakeChanges() normalize.Batch {
	b := normalize.Batch{Moves: l.moves, UpdateAttr: l.updateAttr, UpdateText: l.updateText}
	l.DiscardChanges()
	return b
}

// NotifyInsert reports that node was just inserted into the tree.
func (l *Live) NotifyInsert(node *domtree.Node) {
	if !l.observing {
		return
	}
	l.moves = append(l.moves, normalize.Move{Kind: normalize.MoveInsert, Node: node})
}

// NotifyDelete reports that node was just removed from target, having
// previously sat right after prevSibling (nil if it was target's first
// child).
func (l *Live) NotifyDelete(node, target, prevSibling *domtree.Node) {
	if !l.observing {
		return
	}
	l.moves = append(l.moves, normalize.Move{Kind: normalize.MoveDelete, Node: node, Target: target, PrevSibling: prevSibling})
}

// NotifyUpdateAttr reports an attribute change, coalescing repeats on the
// same node/attribute to the oldest old value and newest new value.
func (l *Live) NotifyUpdateAttr(node *domtree.Node, name, ns, oldValue, newValue string) {
	if !l.observing {
		return
	}
	m, ok := l.updateAttr[node]
	if !ok {
		m = normalize.UpdateAttrs{}
		l.updateAttr[node] = m
	}
	key := ns + "|" + name
	if existing, had := m[key]; had {
		m[key] = normalize.AttrChange{Name: name, NS: ns, OldValue: existing.OldValue, NewValue: newValue}
	} else {
		m[key] = normalize.AttrChange{Name: name, NS: ns, OldValue: oldValue, NewValue: newValue}
	}
}

// NotifyUpdateText reports a text node's content change, keeping only the
// first oldValue seen for node within the current batch.
func (l *Live) NotifyUpdateText(node *domtree.Node, oldValue string) {
	if !l.observing {
		return
	}
	if _, had := l.updateText[node]; !had {
		l.updateText[node] = oldValue
	}
}
