package prefetch

import (
	"context"
	"sync"

	"github.com/cocowutech/placement/internal/item"
)

// GenerateFunc produces one content unit. The coordinator calls it on a
// background goroutine.
type GenerateFunc func(ctx context.Context, input item.GenerateInput) (*item.Unit, error)

// Coordinator hides generation latency by requesting the next content
// unit while the learner is still answering the current one. A trigger
// fires at most once per unit, at a fixed offset into it; the result is
// cached until consumed exactly once. Failures are absorbed: the
// foreground path falls back to synchronous generation when nothing is
// ready.
type Coordinator struct {
	unitSize int
	offset   int
	generate GenerateFunc

	// onError observes absorbed background failures. Optional.
	onError func(error)

	mu        sync.Mutex
	lastFired int // session item index of the last fired trigger
	epoch     int // bumped by Invalidate; stale results are discarded
	pending   bool
	ready     *item.Unit
}

// New creates a Coordinator. offset is the position within a unit at
// which the trigger fires (1-based); unitSize is the unit length.
// onError may be nil.
func New(unitSize, offset int, generate GenerateFunc, onError func(error)) *Coordinator {
	return &Coordinator{
		unitSize:  unitSize,
		offset:    offset,
		generate:  generate,
		onError:   onError,
		lastFired: -1,
	}
}

// MaybeTrigger fires a background generation if the trigger condition
// holds at the given 1-based session item index. It returns true if a
// generation was started. Calling it twice at the same index, or while
// a generation is pending or a unit is ready, is a no-op.
func (c *Coordinator) MaybeTrigger(ctx context.Context, index int, input item.GenerateInput) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	indexWithinUnit := (index-1)%c.unitSize + 1
	if (indexWithinUnit-c.offset)%c.unitSize != 0 {
		return false
	}
	if index == c.lastFired || c.pending || c.ready != nil {
		return false
	}

	c.lastFired = index
	c.pending = true
	epoch := c.epoch

	go c.run(ctx, epoch, input)
	return true
}

func (c *Coordinator) run(ctx context.Context, epoch int, input item.GenerateInput) {
	unit, err := c.generate(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		// Invalidated while in flight; the result no longer matches the
		// session's level.
		return
	}
	c.pending = false
	if err != nil {
		if c.onError != nil {
			c.onError(err)
		}
		return
	}
	c.ready = unit
}

// Consume returns the prefetched unit if one is ready, at most once.
// Returns nil when nothing is ready; the caller then generates
// synchronously.
func (c *Coordinator) Consume() *item.Unit {
	c.mu.Lock()
	defer c.mu.Unlock()

	u := c.ready
	c.ready = nil
	return u
}

// Invalidate discards any ready unit and marks any in-flight
// generation's result as stale. Call it when the level moves away from
// the prefetched one or when the session finishes.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.ready = nil
	c.pending = false
}
