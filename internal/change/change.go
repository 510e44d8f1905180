// Package change implements the Change/ChangeSet value model and its
// inversion (spec.md §3, §4.B).
package change

import "github.com/hazyhaar/domundo/internal/path"

// Kind discriminates a Change's variant (spec.md §9 "Tagged variants over
// inheritance": a discriminated record, not a class hierarchy).
type Kind int

const (
	KindInsert Kind = iota
	KindDelete
	KindUpdateAttr
	KindUpdateRange
)

// AttrUpdate is one attribute's before/after value within an update-attr
// Change.
type AttrUpdate struct {
	Name     string
	NS       string
	OldValue string
	NewValue string
}

// Range is a path-based selection boundary pair, or nil when there is no
// selection to track.
type Range struct {
	Start path.Path
	End   path.Path
}

// Change is one tagged edit record (spec.md §3).
type Change struct {
	Kind Kind

	Path path.Path // insert/delete/update-attr

	Content []Node // insert/delete: clones or reconstructions, owned by the change

	Attrs []AttrUpdate // update-attr

	OldRange *Range // update-range
	NewRange *Range // update-range
}

// Node is the change model's content payload: an immutable, owned
// description of a cloned or reconstructed tree node. It is deliberately
// not *domtree.Node so that Change values never alias the live tree — the
// applier is the only place content crosses back into domtree.Node form.
type Node struct {
	IsText bool
	Name   string // element name, or domtree.TextNodeName for text
	NS     string
	Attrs  []AttrUpdateValue
	Text   string
	Kids   []Node
}

// AttrUpdateValue is a plain (non-delta) attribute value, used for insert/
// delete content rather than update-attr's before/after pair.
type AttrUpdateValue struct {
	Name  string
	NS    string
	Value string
}

// ChangeSet bundles an ordered list of Changes with an optional selection
// update and opaque, free-form metadata (spec.md §3). Meta.Type is
// recognized by the history coalescer for "typing" and "enter". ID
// correlates the entry across audit log lines; it is assigned once, when
// the frame that produced the ChangeSet is cut (frame.go), and carried
// unchanged through inversion.
type ChangeSet struct {
	ID        string
	Changes   []Change
	Meta      Meta
	Selection *Change // a KindUpdateRange change, or nil
}

// Meta is the ChangeSet's free-form label, e.g. {Type: "typing"}.
type Meta struct {
	Type string
}

// Insert constructs an insert Change.
func Insert(p path.Path, content []Node) Change {
	return Change{Kind: KindInsert, Path: p, Content: content}
}

// Delete constructs a delete Change.
func Delete(p path.Path, content []Node) Change {
	return Change{Kind: KindDelete, Path: p, Content: content}
}

// UpdateAttr constructs an update-attr Change.
func UpdateAttr(p path.Path, attrs []AttrUpdate) Change {
	return Change{Kind: KindUpdateAttr, Path: p, Attrs: attrs}
}

// UpdateRange constructs an update-range Change.
func UpdateRange(oldRange, newRange *Range) Change {
	return Change{Kind: KindUpdateRange, OldRange: oldRange, NewRange: newRange}
}

// Inverse swaps a Change's direction (spec.md §4.B): insert becomes
// delete and vice versa (content retained verbatim), update-attr swaps
// each attribute's old/new value, update-range swaps its old/new range.
func Inverse(c Change) Change {
	switch c.Kind {
	case KindInsert:
		return Change{Kind: KindDelete, Path: c.Path, Content: c.Content}
	case KindDelete:
		return Change{Kind: KindInsert, Path: c.Path, Content: c.Content}
	case KindUpdateAttr:
		inverted := make([]AttrUpdate, len(c.Attrs))
		for i, a := range c.Attrs {
			inverted[i] = AttrUpdate{Name: a.Name, NS: a.NS, OldValue: a.NewValue, NewValue: a.OldValue}
		}
		return Change{Kind: KindUpdateAttr, Path: c.Path, Attrs: inverted}
	case KindUpdateRange:
		return Change{Kind: KindUpdateRange, OldRange: c.NewRange, NewRange: c.OldRange}
	default:
		panic("change: unrecognized Kind in Inverse")
	}
}

// InverseChangeSet reverses the change order, inverts each change and the
// selection update, and preserves Meta (spec.md §4.B).
func InverseChangeSet(cs ChangeSet) ChangeSet {
	inverted := make([]Change, len(cs.Changes))
	for i, c := range cs.Changes {
		inverted[len(cs.Changes)-1-i] = Inverse(c)
	}
	out := ChangeSet{ID: cs.ID, Changes: inverted, Meta: cs.Meta}
	if cs.Selection != nil {
		sel := Inverse(*cs.Selection)
		out.Selection = &sel
	}
	return out
}
