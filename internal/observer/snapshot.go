package observer

import (
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/normalize"
)

// Snapshot is the diff-based Observer variant: rather than being told
// about each edit, it keeps a frozen clone of the watched subtree and
// diffs the live tree against it on TakeChanges. Useful when the host
// mutates the tree directly (bulk DOM replacement, a rendering library
// that owns the nodes) and can't call into Notify* itself.
type Snapshot struct {
	container *domtree.Node
	observing bool
	last      *domtree.Node
	lastHash  [32]byte
}

// NewSnapshot builds a Snapshot observer over container, initially not
// observing.
func NewSnapshot(container *domtree.Node) *Snapshot {
	return &Snapshot{container: container}
}

func (s *Snapshot) ObserveAll() {
	s.observing = true
	s.last = domtree.SnapshotClone(s.container)
	s.lastHash = hashTree(s.last)
}

func (s *Snapshot) Disconnect() { s.observing = false }

func (s *Snapshot) DiscardChanges() {
	s.last = domtree.SnapshotClone(s.container)
	s.lastHash = hashTree(s.last)
}

// TakeChanges diffs the live tree against the last snapshot. A blake2b
// hash of the canonical tree shape guards the common case of no change at
// all, skipping the diff entirely.
func (s *Snapshot) TakeChanges() normalize.Batch {
	if !s.observing || s.last == nil {
		return normalize.Batch{}
	}

	newHash := hashTree(s.container)
	if newHash == s.lastHash {
		return normalize.Batch{}
	}

	updateAttr := map[*domtree.Node]normalize.UpdateAttrs{}
	updateText := map[*domtree.Node]string{}
	var moves []normalize.Move
	diffChildren(s.last, s.container, &moves, updateAttr, updateText)

	s.last = domtree.SnapshotClone(s.container)
	s.lastHash = hashTree(s.last)
	return normalize.Batch{Moves: moves, UpdateAttr: updateAttr, UpdateText: updateText}
}

// diffChildren compares snapParent's and liveParent's children by expando
// id: unmatched live children are inserts, unmatched snapshot children are
// deletes (anchored on the nearest still-live preceding sibling), and
// matched children recurse for nested structural or content changes.
func diffChildren(
	snapParent, liveParent *domtree.Node,
	moves *[]normalize.Move,
	updateAttr map[*domtree.Node]normalize.UpdateAttrs,
	updateText map[*domtree.Node]string,
) {
	snapChildren := domtree.Children(snapParent)
	liveChildren := domtree.Children(liveParent)

	snapByID := make(map[uint64]*domtree.Node, len(snapChildren))
	for _, c := range snapChildren {
		snapByID[domtree.EnsureExpandoID(c)] = c
	}
	liveByID := make(map[uint64]*domtree.Node, len(liveChildren))
	for _, c := range liveChildren {
		liveByID[domtree.EnsureExpandoID(c)] = c
	}

	for _, c := range liveChildren {
		id := domtree.EnsureExpandoID(c)
		snapChild, ok := snapByID[id]
		if !ok {
			*moves = append(*moves, normalize.Move{Kind: normalize.MoveInsert, Node: c})
			continue
		}
		if domtree.IsTextNode(c) {
			if c.Text != snapChild.Text {
				if _, had := updateText[c]; !had {
					updateText[c] = snapChild.Text
				}
			}
			continue
		}
		recordAttrChanges(snapChild, c, updateAttr)
		diffChildren(snapChild, c, moves, updateAttr, updateText)
	}

	for i, sc := range snapChildren {
		id := domtree.EnsureExpandoID(sc)
		if _, stillLive := liveByID[id]; stillLive {
			continue
		}
		var prevSibling *domtree.Node
		for j := i - 1; j >= 0; j-- {
			pid := domtree.EnsureExpandoID(snapChildren[j])
			if live, ok := liveByID[pid]; ok {
				prevSibling = live
				break
			}
		}
		*moves = append(*moves, normalize.Move{Kind: normalize.MoveDelete, Node: sc, Target: liveParent, PrevSibling: prevSibling})
	}
}

func recordAttrChanges(snap, live *domtree.Node, updateAttr map[*domtree.Node]normalize.UpdateAttrs) {
	changed := normalize.UpdateAttrs{}
	seen := map[string]bool{}
	for _, a := range live.Attrs {
		key := a.NS + "|" + a.Name
		seen[key] = true
		oldVal, hadOld := domtree.GetAttrNS(snap, a.NS, a.Name)
		if !hadOld || oldVal != a.Value {
			changed[key] = normalize.AttrChange{Name: a.Name, NS: a.NS, OldValue: oldVal, NewValue: a.Value}
		}
	}
	for _, a := range snap.Attrs {
		key := a.NS + "|" + a.Name
		if seen[key] {
			continue
		}
		changed[key] = normalize.AttrChange{Name: a.Name, NS: a.NS, OldValue: a.Value, NewValue: ""}
	}
	if len(changed) == 0 {
		return
	}
	if _, ok := updateAttr[live]; !ok {
		updateAttr[live] = normalize.UpdateAttrs{}
	}
	for k, v := range changed {
		updateAttr[live][k] = v
	}
}

// hashTree computes a canonical blake2b-256 hash of n's shape: type, name,
// namespace, sorted attributes, text, and children, recursively. Two trees
// with the same hash are assumed structurally identical; this is only a
// fast-path dirty check ahead of the real diff, never relied on for
// correctness beyond "nothing changed".
func hashTree(n *domtree.Node) [32]byte {
	h, _ := blake2b.New256(nil)
	writeNode(h, n)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeNode(h interface{ Write([]byte) (int, error) }, n *domtree.Node) {
	h.Write([]byte{byte(n.Type)})
	h.Write([]byte(n.Name))
	h.Write([]byte{0})
	h.Write([]byte(n.Namespace))
	h.Write([]byte{0})
	h.Write([]byte(n.Text))
	h.Write([]byte{0})

	attrs := append([]domtree.Attribute(nil), n.Attrs...)
	sort.Slice(attrs, func(i, j int) bool {
		if attrs[i].NS != attrs[j].NS {
			return attrs[i].NS < attrs[j].NS
		}
		return attrs[i].Name < attrs[j].Name
	})
	for _, a := range attrs {
		h.Write([]byte(a.NS))
		h.Write([]byte{0})
		h.Write([]byte(a.Name))
		h.Write([]byte{0})
		h.Write([]byte(a.Value))
		h.Write([]byte{0})
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(h, c)
	}
}
