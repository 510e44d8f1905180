package normalize_test

import (
	"testing"

	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/domtree/domtreetest"
	"github.com/hazyhaar/domundo/internal/normalize"
)

// TestInsertThenDeleteCancelsOut exercises stage 1: a node inserted and
// deleted within the same batch leaves no trace in the record tree.
func TestInsertThenDeleteCancelsOut(t *testing.T) {
	root := domtreetest.Elem("div")
	n := domtreetest.Elem("a")
	domtree.AppendChild(root, n)

	moves := []normalize.Move{
		{Kind: normalize.MoveInsert, Node: n},
		{Kind: normalize.MoveDelete, Node: n, Target: root, PrevSibling: nil},
	}
	domtree.RemoveChild(root, n)

	records := normalize.Normalize(root, normalize.Batch{Moves: moves})
	if len(records) != 0 {
		t.Fatalf("expected insert+delete to cancel out, got %+v", records)
	}
}

// TestAdjacentDeletesFoldIntoOneCompound exercises stage 2: two sibling
// deletes sharing an anchor fold into a single RCompoundDelete record.
func TestAdjacentDeletesFoldIntoOneCompound(t *testing.T) {
	a := domtreetest.Elem("a")
	b := domtreetest.Elem("b")
	root := domtreetest.Elem("div", a, b)

	domtree.RemoveChild(root, a)
	domtree.RemoveChild(root, b)

	moves := []normalize.Move{
		{Kind: normalize.MoveDelete, Node: a, Target: root, PrevSibling: nil},
		{Kind: normalize.MoveDelete, Node: b, Target: root, PrevSibling: nil},
	}

	records := normalize.Normalize(root, normalize.Batch{Moves: moves})
	if len(records) != 1 || records[0].Kind != normalize.RCompoundDelete {
		t.Fatalf("expected one compound delete, got %+v", records)
	}
	if len(records[0].Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(records[0].Members))
	}
}

// TestReverseOrderDeletesFoldIntoOneCompound exercises stage 1's stranding:
// a tail-to-head delete batch (last sibling first) anchors each delete on a
// sibling that itself gets deleted later in the same batch, so the bucket
// built for the earlier deletes must migrate onto the anchor the last
// delete actually settles on.
func TestReverseOrderDeletesFoldIntoOneCompound(t *testing.T) {
	a := domtreetest.Elem("a")
	b := domtreetest.Elem("b")
	c := domtreetest.Elem("c")
	root := domtreetest.Elem("div", a, b, c)

	domtree.RemoveChild(root, c)
	domtree.RemoveChild(root, b)
	domtree.RemoveChild(root, a)

	moves := []normalize.Move{
		{Kind: normalize.MoveDelete, Node: c, Target: root, PrevSibling: b},
		{Kind: normalize.MoveDelete, Node: b, Target: root, PrevSibling: a},
		{Kind: normalize.MoveDelete, Node: a, Target: root, PrevSibling: nil},
	}

	records := normalize.Normalize(root, normalize.Batch{Moves: moves})
	if len(records) != 1 || records[0].Kind != normalize.RCompoundDelete {
		t.Fatalf("expected one compound delete, got %+v", records)
	}
	if len(records[0].Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(records[0].Members))
	}
}

// TestDeleteConsumesPendingAttrUpdate checks that an attribute update on a
// node deleted within the same batch travels with the delete record rather
// than surfacing as a separate standalone update.
func TestDeleteConsumesPendingAttrUpdate(t *testing.T) {
	a := domtreetest.Attr(domtreetest.Elem("a"), "class", "new")
	root := domtreetest.Elem("div", a)
	domtree.RemoveChild(root, a)

	moves := []normalize.Move{
		{Kind: normalize.MoveDelete, Node: a, Target: root, PrevSibling: nil},
	}
	updateAttr := map[*domtree.Node]normalize.UpdateAttrs{
		a: {"|class": {Name: "class", OldValue: "old", NewValue: "new"}},
	}

	records := normalize.Normalize(root, normalize.Batch{Moves: moves, UpdateAttr: updateAttr})
	if len(records) != 1 || records[0].Kind != normalize.RCompoundDelete {
		t.Fatalf("expected one compound delete, got %+v", records)
	}
	member := records[0].Members[0]
	if member.Attrs["|class"].OldValue != "old" {
		t.Fatalf("expected the delete member to carry the attr update, got %+v", member.Attrs)
	}
}

// TestInsertNestsUnderContainingDelete exercises stage 3's containment
// algebra: a node inserted inside a subtree that was itself deleted in the
// same batch nests under the delete record rather than standing alone.
func TestInsertNestsUnderContainingDelete(t *testing.T) {
	inner := domtreetest.Elem("span")
	outer := domtreetest.Elem("div", inner)
	root := domtreetest.Elem("div", outer)

	domtree.AppendChild(inner, domtreetest.Elem("b")) // inserted, then outer removed
	newChild := inner.FirstChild

	domtree.RemoveChild(root, outer)

	moves := []normalize.Move{
		{Kind: normalize.MoveInsert, Node: newChild},
		{Kind: normalize.MoveDelete, Node: outer, Target: root, PrevSibling: nil},
	}

	records := normalize.Normalize(root, normalize.Batch{Moves: moves})
	if len(records) != 1 || records[0].Kind != normalize.RCompoundDelete {
		t.Fatalf("expected the outer delete to surface alone, got %+v", records)
	}
}

// TestTopLevelOrderingPutsDeleteBeforeInsertAtSameSlot exercises stage 4's
// tie-break: when a delete's anchor slot coincides with where a surviving
// insert lands, the delete sorts first.
func TestTopLevelOrderingPutsDeleteBeforeInsertAtSameSlot(t *testing.T) {
	a := domtreetest.Elem("a")
	root := domtreetest.Elem("div", a)

	domtree.RemoveChild(root, a)
	newNode := domtreetest.Elem("c")
	domtree.AppendChild(root, newNode)

	moves := []normalize.Move{
		{Kind: normalize.MoveDelete, Node: a, Target: root, PrevSibling: nil},
		{Kind: normalize.MoveInsert, Node: newNode},
	}

	records := normalize.Normalize(root, normalize.Batch{Moves: moves})
	if len(records) != 2 {
		t.Fatalf("expected 2 top-level records, got %+v", records)
	}
	if records[0].Kind != normalize.RCompoundDelete || records[1].Kind != normalize.RInsert {
		t.Fatalf("expected delete before insert, got %+v", records)
	}
}

// TestFilterToContainerDropsOutsideRecords checks the closing filter step:
// a move anchored entirely outside the watched container never surfaces.
func TestFilterToContainerDropsOutsideRecords(t *testing.T) {
	container := domtreetest.Elem("div")
	outsideRoot := domtreetest.Elem("section")
	n := domtreetest.Elem("a")
	domtree.AppendChild(outsideRoot, n)

	moves := []normalize.Move{
		{Kind: normalize.MoveInsert, Node: n},
	}

	records := normalize.Normalize(container, normalize.Batch{Moves: moves})
	if len(records) != 0 {
		t.Fatalf("expected out-of-container insert to be filtered out, got %+v", records)
	}
}
