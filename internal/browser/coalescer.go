package browser

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/odeon/internal/mediaid"
)

// Coalescer collapses bursts of stale ids into deduplicated batches.
// Ids added within the window of each other are flushed together, in first
// seen order, once the window elapses without further ids.
type Coalescer struct {
	window time.Duration
	flush  func([]mediaid.MediaID)

	mu      sync.Mutex
	pending []mediaid.MediaID
	seen    map[mediaid.MediaID]struct{}
	timer   *time.Timer
	stopped bool
}

// NewCoalescer creates a coalescer calling flush with each batch.
func NewCoalescer(window time.Duration, flush func([]mediaid.MediaID)) *Coalescer {
	return &Coalescer{
		window: window,
		flush:  flush,
		seen:   make(map[mediaid.MediaID]struct{}),
	}
}

// Add records a stale id and restarts the window.
func (c *Coalescer) Add(id mediaid.MediaID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if _, ok := c.seen[id]; !ok {
		c.seen[id] = struct{}{}
		c.pending = append(c.pending, id)
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, c.fire)
}

func (c *Coalescer) fire() {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	clear(c.seen)
	stopped := c.stopped
	c.mu.Unlock()

	if len(batch) > 0 && !stopped {
		c.flush(batch)
	}
}

// Stop drops pending ids and prevents further flushes.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = nil
	clear(c.seen)
}

// Consume adds every id delivered by sub until ctx is done or sub is closed,
// then stops the coalescer.
func (c *Coalescer) Consume(ctx context.Context, sub *Subscription) {
	defer c.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case id := <-sub.UpdatedParentIDs:
			c.Add(id)
		}
	}
}
