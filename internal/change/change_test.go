package change_test

import (
	"reflect"
	"testing"

	"github.com/hazyhaar/domundo/internal/change"
	"github.com/hazyhaar/domundo/internal/path"
)

func TestInverseSwapsInsertDelete(t *testing.T) {
	content := []change.Node{{IsText: true, Name: "#text", Text: "hi"}}
	p := path.Path{{Offset: 0, NodeName: "div"}}

	ins := change.Insert(p, content)
	del := change.Inverse(ins)
	if del.Kind != change.KindDelete || !reflect.DeepEqual(del.Content, content) || !del.Path.Equal(p) {
		t.Fatalf("Inverse(insert) = %+v", del)
	}
	if back := change.Inverse(del); back.Kind != change.KindInsert || !reflect.DeepEqual(back.Content, content) {
		t.Fatalf("Inverse(Inverse(insert)) = %+v, want original", back)
	}
}

func TestInverseUpdateAttrSwapsValues(t *testing.T) {
	p := path.Path{{Offset: 0, NodeName: "div"}}
	c := change.UpdateAttr(p, []change.AttrUpdate{{Name: "class", OldValue: "a", NewValue: "b"}})
	inv := change.Inverse(c)
	if inv.Attrs[0].OldValue != "b" || inv.Attrs[0].NewValue != "a" {
		t.Fatalf("Inverse(updateAttr) = %+v", inv.Attrs[0])
	}
}

func TestInverseChangeSetReversesOrder(t *testing.T) {
	p := path.Path{{Offset: 0, NodeName: "div"}}
	c1 := change.Insert(p, nil)
	c2 := change.Delete(p, nil)
	cs := change.ChangeSet{Changes: []change.Change{c1, c2}, Meta: change.Meta{Type: "edit"}}

	inv := change.InverseChangeSet(cs)
	if len(inv.Changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(inv.Changes))
	}
	if inv.Changes[0].Kind != change.KindInsert || inv.Changes[1].Kind != change.KindDelete {
		t.Fatalf("expected reversed order with kinds swapped, got %+v", inv.Changes)
	}
	if inv.Meta != cs.Meta {
		t.Fatalf("Meta not preserved: got %+v", inv.Meta)
	}

	// Applying Inverse twice returns to the original shape.
	roundTrip := change.InverseChangeSet(inv)
	if roundTrip.Changes[0].Kind != c1.Kind || roundTrip.Changes[1].Kind != c2.Kind {
		t.Fatalf("double inverse did not restore original order/kinds: %+v", roundTrip.Changes)
	}
}

func TestInverseChangeSetInvertsSelection(t *testing.T) {
	oldR := &change.Range{Start: path.Path{{Offset: 0, NodeName: "div"}}}
	newR := &change.Range{Start: path.Path{{Offset: 1, NodeName: "div"}}}
	sel := change.UpdateRange(oldR, newR)
	cs := change.ChangeSet{Selection: &sel}

	inv := change.InverseChangeSet(cs)
	if inv.Selection == nil {
		t.Fatal("expected inverted selection to be non-nil")
	}
	if !inv.Selection.OldRange.Start.Equal(newR.Start) || !inv.Selection.NewRange.Start.Equal(oldR.Start) {
		t.Fatalf("selection not inverted: %+v", inv.Selection)
	}
}
