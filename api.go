package domundo

import "github.com/hazyhaar/domundo/internal/change"

// Change and ChangeSet are domundo's public change-model types
// (spec.md §3), re-exported from the internal engine so callers never
// import internal/change directly.
type Change = change.Change
type ChangeSet = change.ChangeSet
type AttrUpdate = change.AttrUpdate
type Meta = change.Meta

// Do runs fn as one top-level edit: a frame that always cuts its own
// ChangeSet (tagged with meta) and records it in history when anything
// actually changed.
func (c *Context) Do(meta Meta, fn func()) ChangeSet {
	cs, ok := c.capture(FrameOptions{PartitionRecords: true, Meta: meta}, fn)
	if !ok {
		return ChangeSet{}
	}
	if len(cs.Changes) > 0 || cs.Selection != nil {
		c.hist.advance(cs)
	}
	return cs
}

// Enter pushes a nested capture frame; pair with Leave.
func (c *Context) Enter(opts FrameOptions) {
	c.enter(opts)
}

// Leave pops the frame pushed by the matching Enter. When the frame's
// effective partitioning flag was set, it drains and records the ChangeSet
// cut at this boundary — regardless of how many enclosing frames are still
// open, since a partitioning frame's drain always represents a complete,
// already-taken observer batch; otherwise ok is false and the captured
// edits remain pending for the enclosing frame.
func (c *Context) Leave() (cs ChangeSet, ok bool) {
	cs, ok = c.leave()
	if ok && (len(cs.Changes) > 0 || cs.Selection != nil) {
		c.hist.advance(cs)
	}
	return cs, ok
}
