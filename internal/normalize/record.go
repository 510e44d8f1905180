// Package normalize implements the Normalizer (spec.md §4.D, component D):
// converting raw mutation records from a batch into a sorted, order-
// independent record tree with collapsed insert/delete sequences.
package normalize

import "github.com/hazyhaar/domundo/internal/domtree"

// MoveKind discriminates a raw structural mutation.
type MoveKind int

const (
	MoveInsert MoveKind = iota
	MoveDelete
)

// Move is a raw INSERT or DELETE record as captured by an observer,
// before any normalization (spec.md §3 "Raw mutation record").
type Move struct {
	Kind        MoveKind
	Node        *domtree.Node
	Target      *domtree.Node // DELETE: node's former parent
	PrevSibling *domtree.Node // DELETE: node's former previous sibling, nil if it was the first child
}

// AttrChange is one attribute's old/new value, as captured by the
// observer for an UPDATE_ATTR raw record.
type AttrChange struct {
	Name, NS           string
	OldValue, NewValue string
}

// RecordKind discriminates a normalized record.
type RecordKind int

const (
	RInsert RecordKind = iota
	RDelete
	RUpdateAttr
	RUpdateText
	RCompoundDelete
)

// Record is one node of the sorted record tree the Normalizer produces.
// Deletes (and compound deletes) carry the pre-delete attribute/text
// state needed to reconstruct the removed subtree (spec.md §4.E).
type Record struct {
	Kind RecordKind

	Node        *domtree.Node // subject node: deleted node, inserted node, or updated node
	Target      *domtree.Node // DELETE/COMPOUND_DELETE: former parent
	PrevSibling *domtree.Node // DELETE/COMPOUND_DELETE: former previous sibling

	Attrs      map[string]AttrChange // UPDATE_ATTR, or consolidated onto a delete member
	OldText    string                // UPDATE_TEXT, or consolidated onto a delete member
	HasOldText bool

	Members   []*Record // RCompoundDelete: the member RDelete records, anchor order
	Contained []*Record // sorted records nested within this one
}

// anchor is the live node a record is positioned by: prevSibling-or-target
// for deletes, the subject node for everything else (spec.md glossary).
func anchor(r *Record) *domtree.Node {
	switch r.Kind {
	case RDelete, RCompoundDelete:
		if r.PrevSibling != nil {
			return r.PrevSibling
		}
		return r.Target
	default:
		return r.Node
	}
}

// subjectContains reports whether anchor n lies within the subtree that
// container logically owns: the inserted node's subtree for an insert,
// the deleted node's (still structurally intact, though detached) subtree
// for a delete, or any member's subtree for a compound delete.
func subjectContains(container *Record, n *domtree.Node) bool {
	switch container.Kind {
	case RInsert, RDelete:
		return domtree.Contains(container.Node, n)
	case RCompoundDelete:
		for _, m := range container.Members {
			if domtree.Contains(m.Node, n) {
				return true
			}
		}
		return false
	default:
		return false // pure updates never contain other records
	}
}
