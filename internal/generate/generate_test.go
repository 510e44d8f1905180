package generate_test

import (
	"testing"

	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/domtree/domtreetest"
	"github.com/hazyhaar/domundo/internal/generate"
	"github.com/hazyhaar/domundo/internal/normalize"
)

func TestAdjacentSiblingInsertsCoalesceIntoOneChange(t *testing.T) {
	a := domtreetest.Elem("a")
	b := domtreetest.Elem("b")
	root := domtreetest.Elem("div")
	domtree.AppendChild(root, a)
	domtree.AppendChild(root, b)

	records := normalize.Normalize(root, normalize.Batch{Moves: []normalize.Move{
		{Kind: normalize.MoveInsert, Node: a},
		{Kind: normalize.MoveInsert, Node: b},
	}})
	changes := generate.Generate(root, records)

	if len(changes) != 1 {
		t.Fatalf("expected one coalesced insert Change, got %d: %+v", len(changes), changes)
	}
	if len(changes[0].Content) != 2 {
		t.Fatalf("expected 2 content nodes, got %+v", changes[0].Content)
	}
}

func TestNonAdjacentInsertsProduceSeparateChanges(t *testing.T) {
	a := domtreetest.Elem("a")
	mid := domtreetest.Elem("mid") // not reported as an insert: splits a and c apart
	c := domtreetest.Elem("c")
	root := domtreetest.Elem("div")
	domtree.AppendChild(root, a)
	domtree.AppendChild(root, mid)
	domtree.AppendChild(root, c)

	records := normalize.Normalize(root, normalize.Batch{Moves: []normalize.Move{
		{Kind: normalize.MoveInsert, Node: a},
		{Kind: normalize.MoveInsert, Node: c},
	}})
	changes := generate.Generate(root, records)

	if len(changes) != 2 {
		t.Fatalf("expected 2 separate insert Changes, got %d: %+v", len(changes), changes)
	}
}

func TestCompoundDeleteCapturesMemberContent(t *testing.T) {
	a := domtreetest.Attr(domtreetest.Elem("a"), "id", "x")
	b := domtreetest.Elem("b")
	root := domtreetest.Elem("div", a, b)

	domtree.RemoveChild(root, a)
	domtree.RemoveChild(root, b)

	records := normalize.Normalize(root, normalize.Batch{Moves: []normalize.Move{
		{Kind: normalize.MoveDelete, Node: a, Target: root, PrevSibling: nil},
		{Kind: normalize.MoveDelete, Node: b, Target: root, PrevSibling: nil},
	}})
	changes := generate.Generate(root, records)

	if len(changes) != 1 {
		t.Fatalf("expected one compound delete Change, got %d: %+v", len(changes), changes)
	}
	if len(changes[0].Content) != 2 {
		t.Fatalf("expected 2 content nodes for the two deleted siblings, got %+v", changes[0].Content)
	}
	if changes[0].Content[0].Attrs[0].Value != "x" {
		t.Fatalf("expected the deleted node's attribute captured in its snapshot, got %+v", changes[0].Content[0])
	}
}

func TestUpdateAttrChangeCarriesOldAndNewValue(t *testing.T) {
	a := domtreetest.Attr(domtreetest.Elem("a"), "class", "new")
	root := domtreetest.Elem("div", a)

	records := normalize.Normalize(root, normalize.Batch{
		UpdateAttr: map[*domtree.Node]normalize.UpdateAttrs{
			a: {"|class": {Name: "class", OldValue: "old", NewValue: "new"}},
		},
	})
	changes := generate.Generate(root, records)

	if len(changes) != 1 {
		t.Fatalf("expected one update-attr Change, got %d: %+v", len(changes), changes)
	}
	if changes[0].Attrs[0].OldValue != "old" || changes[0].Attrs[0].NewValue != "new" {
		t.Fatalf("unexpected attr values: %+v", changes[0].Attrs[0])
	}
}

func TestUpdateTextProducesDeleteThenInsertPair(t *testing.T) {
	txt := domtreetest.Text("new")
	root := domtreetest.Elem("div", txt)

	records := normalize.Normalize(root, normalize.Batch{
		UpdateText: map[*domtree.Node]string{txt: "old"},
	})
	changes := generate.Generate(root, records)

	if len(changes) != 2 {
		t.Fatalf("expected delete+insert pair, got %d: %+v", len(changes), changes)
	}
	if changes[0].Content[0].Text != "old" {
		t.Fatalf("expected delete to carry the old text, got %+v", changes[0].Content[0])
	}
	if changes[1].Content[0].Text != "new" {
		t.Fatalf("expected insert to carry the new text, got %+v", changes[1].Content[0])
	}
}
