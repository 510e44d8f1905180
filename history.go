package domundo

import (
	"github.com/hazyhaar/domundo/internal/apply"
	"github.com/hazyhaar/domundo/internal/change"
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/path"
)

// history is the undo/redo stack (spec.md §4.H): entries[:index] are
// undoable, entries[index:] are redoable. A new top-level ChangeSet either
// combines into the current last entry (typing coalescing) or truncates
// the redo tail and becomes a new entry.
type history struct {
	entries           []change.ChangeSet
	index             int
	maxHistory        int
	maxCombineChars   int
	typingInterrupted bool
}

func newHistory(maxHistory, maxCombineChars int) history {
	return history{maxHistory: maxHistory, maxCombineChars: maxCombineChars}
}

// advance records a newly captured top-level ChangeSet.
func (h *history) advance(cs change.ChangeSet) {
	if len(cs.Changes) == 0 && cs.Selection == nil {
		return
	}
	h.entries = h.entries[:h.index]

	if h.index > 0 && !h.typingInterrupted {
		if combined, ok := h.combine(h.entries[h.index-1], cs); ok {
			h.entries[h.index-1] = combined
			return
		}
	}
	h.typingInterrupted = false

	h.entries = append(h.entries, cs)
	h.index++
	if h.maxHistory > 0 && len(h.entries) > h.maxHistory {
		overflow := len(h.entries) - h.maxHistory
		h.entries = h.entries[overflow:]
		h.index -= overflow
	}
}

// interruptTyping prevents the next typing ChangeSet from combining with
// the current last entry, e.g. because the selection moved without an
// edit in between.
func (h *history) interruptTyping() {
	h.typingInterrupted = true
}

// combine folds next into prev when next is a typing insert continuing the
// same text run as prev (itself a typing or "enter" insert) and prev's text
// is still shorter than maxCombineChars; advance only calls it when nothing
// interrupted typing since prev was recorded. The combined entry
// keeps each keystroke as its own Content node (rather than synthesizing
// one merged text blob) so its length still matches the number of live
// text nodes Inverse/apply would need to remove on undo — InsertText never
// merges typed text into an existing node (mutate.go).
func (h *history) combine(prev, next change.ChangeSet) (change.ChangeSet, bool) {
	if (prev.Meta.Type != "typing" && prev.Meta.Type != "enter") || next.Meta.Type != "typing" {
		return change.ChangeSet{}, false
	}
	prevPath, ok := singleTextInsert(prev)
	if !ok {
		return change.ChangeSet{}, false
	}
	if _, ok := singleTextInsert(next); !ok {
		return change.ChangeSet{}, false
	}
	prevLen := combinedTextLen(prev)
	if prevLen >= h.maxCombineChars {
		return change.ChangeSet{}, false
	}
	if !pathAdvancedBy(prevPath, next.Changes[0].Path, prevLen) {
		return change.ChangeSet{}, false
	}

	content := append(append([]change.Node{}, prev.Changes[0].Content...), next.Changes[0].Content...)
	combined := change.Insert(prevPath, content)
	return change.ChangeSet{ID: prev.ID, Changes: []change.Change{combined}, Meta: prev.Meta, Selection: next.Selection}, true
}

// singleTextInsert reports whether cs is exactly one insert Change whose
// content ends in a text node, returning its path.
func singleTextInsert(cs change.ChangeSet) (path.Path, bool) {
	if len(cs.Changes) != 1 {
		return nil, false
	}
	c := cs.Changes[0]
	if c.Kind != change.KindInsert || len(c.Content) == 0 || !c.Content[len(c.Content)-1].IsText {
		return nil, false
	}
	return c.Path, true
}

// combinedTextLen sums the rune length of every text Content node in cs's
// sole Change — the total characters already coalesced into this entry.
func combinedTextLen(cs change.ChangeSet) int {
	total := 0
	for _, n := range cs.Changes[0].Content {
		total += len([]rune(n.Text))
	}
	return total
}

// pathAdvancedBy reports whether next is prev with its final text offset
// advanced by delta and nothing else changed: the shape of two
// consecutive keystrokes landing in the same text run.
//
// prev's own last step was recorded at the first keystroke of the
// coalesced run and never changes thereafter (combine always reuses the
// original Insert's Path), so when that first keystroke landed in a
// container with no preceding text, prev's last step names the element
// itself rather than a text run that didn't exist yet. next's step still
// must describe that same text run, now delta runes long.
func pathAdvancedBy(prev, next path.Path, delta int) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := 0; i < len(prev)-1; i++ {
		if prev[i] != next[i] {
			return false
		}
	}
	last := len(prev) - 1
	if next[last].NodeName != domtree.TextNodeName {
		return false
	}
	if prev[last].NodeName != domtree.TextNodeName {
		return next[last].Offset == delta
	}
	return next[last].Offset == prev[last].Offset+delta
}

// Undo applies the inverse of the most recent undoable entry. Reports
// false when there is nothing left to undo.
func (c *Context) Undo() bool {
	if c.hist.index == 0 {
		return false
	}
	cs := c.hist.entries[c.hist.index-1]
	inverse := change.InverseChangeSet(cs)
	c.captureOffTheRecord(func() {
		apply.ChangeSet(c.container, inverse, c.ranges, &c.selection)
	})
	c.hist.index--
	c.hist.typingInterrupted = true
	return true
}

// Redo re-applies the most recently undone entry. Reports false when
// there is nothing left to redo.
func (c *Context) Redo() bool {
	if c.hist.index >= len(c.hist.entries) {
		return false
	}
	cs := c.hist.entries[c.hist.index]
	c.captureOffTheRecord(func() {
		apply.ChangeSet(c.container, cs, c.ranges, &c.selection)
	})
	c.hist.index++
	c.hist.typingInterrupted = true
	return true
}

// InterruptTyping breaks typing coalescing ahead of a non-typing edit or
// an out-of-band selection move.
func (c *Context) InterruptTyping() {
	c.hist.interruptTyping()
}
