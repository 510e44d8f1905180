package domundo

import (
	"github.com/hazyhaar/domundo/internal/change"
	"github.com/hazyhaar/domundo/internal/generate"
	"github.com/hazyhaar/domundo/internal/normalize"
)

// FrameOptions configures one nested capture frame (spec.md §4.G).
type FrameOptions struct {
	// NoObserve suspends the observer for the frame's duration: edits made
	// inside never reach history. Used internally while applying undo/redo.
	NoObserve bool
	// PartitionRecords cuts a separate ChangeSet at this frame's boundary
	// instead of letting its captured edits merge into the enclosing
	// frame's eventual ChangeSet. A frame whose own flag is false still
	// partitions if an enclosing frame already does (spec.md §9 Open
	// Question ii: partitioning follows the nearest enclosing frame that
	// asks for it, not just the frame's own setting).
	PartitionRecords bool
	// Meta labels the resulting ChangeSet (e.g. Type: "typing").
	Meta change.Meta
}

type frame struct {
	id                 string
	opts               FrameOptions
	effectivePartition bool
}

// enter pushes a new frame, suspending the observer if requested. When the
// enclosing frame partitions, whatever it has captured so far is cut into
// its own history entry first, so it doesn't mix with the new frame's edits.
func (c *Context) enter(opts FrameOptions) *frame {
	f := &frame{id: c.ids(), opts: opts}
	f.effectivePartition = opts.PartitionRecords
	if len(c.frames) > 0 {
		parent := c.frames[len(c.frames)-1]
		f.effectivePartition = f.effectivePartition || parent.effectivePartition
		if parent.effectivePartition {
			records := normalize.Normalize(c.container, c.obs.TakeChanges())
			changes := generate.Generate(c.container, records)
			c.hist.advance(change.ChangeSet{ID: parent.id, Changes: changes, Meta: parent.opts.Meta})
		}
	}
	if opts.NoObserve {
		c.noObserveDepth++
		if c.noObserveDepth == 1 {
			c.obs.Disconnect()
		}
	}
	c.frames = append(c.frames, f)
	return f
}

// leave pops the current frame. If this frame's effective partitioning
// flag is set, it drains the observer now and returns the resulting
// ChangeSet; otherwise its captured edits are left for the enclosing
// frame to collect, and ok is false.
func (c *Context) leave() (cs change.ChangeSet, ok bool) {
	n := len(c.frames)
	f := c.frames[n-1]
	c.frames = c.frames[:n-1]

	if f.opts.NoObserve {
		c.noObserveDepth--
		if c.noObserveDepth == 0 {
			c.obs.ObserveAll()
		}
	}

	if !f.effectivePartition {
		return change.ChangeSet{}, false
	}

	batch := c.obs.TakeChanges()
	records := normalize.Normalize(c.container, batch)
	changes := generate.Generate(c.container, records)
	return change.ChangeSet{ID: f.id, Changes: changes, Meta: f.opts.Meta}, true
}

// capture runs fn inside a frame with opts, returning the ChangeSet
// produced if the frame's effective partitioning flag cut one.
func (c *Context) capture(opts FrameOptions, fn func()) (change.ChangeSet, bool) {
	c.enter(opts)
	fn()
	return c.leave()
}

// captureOffTheRecord runs fn with the observer suspended, discarding
// whatever it produces. Used to apply an undo/redo ChangeSet without
// re-recording it as new history (spec.md §4.G "off-the-record captures
// for undo/redo").
func (c *Context) captureOffTheRecord(fn func()) {
	c.enter(FrameOptions{NoObserve: true})
	fn()
	c.leave()
}
