// Package queue exposes a bounded window of the playback timeline as a
// session queue, and services previous, next and skip-to-item requests.
package queue

import (
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/odeon/internal/playback"
)

const (
	DefaultWindowSize      = 10
	DefaultRewindThreshold = 3000 * time.Millisecond
)

// UnknownID is the active item id before any window has been published.
const UnknownID int64 = -1

// Item is one entry of the floating queue. Its ID is the window index of the
// track in the player's timeline.
type Item struct {
	ID    int64
	Track playback.Track
}

// Actions are the navigation requests currently supported.
type Actions uint8

const (
	ActionSkipToPrevious Actions = 1 << iota
	ActionSkipToNext
	ActionSkipToQueueItem
)

// Has reports whether all of want are set.
func (a Actions) Has(want Actions) bool {
	return a&want == want
}

func (a Actions) String() string {
	var names []string
	if a.Has(ActionSkipToPrevious) {
		names = append(names, "previous")
	}
	if a.Has(ActionSkipToNext) {
		names = append(names, "next")
	}
	if a.Has(ActionSkipToQueueItem) {
		names = append(names, "skip-to-item")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Navigator keeps at most a fixed number of queue items materialized around
// the active window. The window is recomputed from scratch whenever it may
// have moved, never patched.
type Navigator struct {
	windowSize      int
	rewindThreshold time.Duration

	mu       sync.Mutex
	activeID int64
	items    []Item

	subs   []*Subscription
	subsMu sync.RWMutex
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithWindowSize sets the maximum number of queue items.
func WithWindowSize(n int) Option {
	return func(nav *Navigator) {
		if n > 0 {
			nav.windowSize = n
		}
	}
}

// WithRewindThreshold sets how far into a track skip-to-previous still moves
// to the previous track instead of restarting the current one.
func WithRewindThreshold(d time.Duration) Option {
	return func(nav *Navigator) {
		if d >= 0 {
			nav.rewindThreshold = d
		}
	}
}

// New creates a navigator with an empty queue.
func New(opts ...Option) *Navigator {
	nav := &Navigator{
		windowSize:      DefaultWindowSize,
		rewindThreshold: DefaultRewindThreshold,
		activeID:        UnknownID,
	}
	for _, opt := range opts {
		opt(nav)
	}
	return nav
}

// WindowSize returns the maximum number of queue items.
func (n *Navigator) WindowSize() int { return n.windowSize }

// ActiveQueueItemID returns the id of the active item, or UnknownID.
func (n *Navigator) ActiveQueueItemID() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.activeID
}

// Queue returns a copy of the current queue.
func (n *Navigator) Queue() []Item {
	n.mu.Lock()
	defer n.mu.Unlock()
	items := make([]Item, len(n.items))
	copy(items, n.items)
	return items
}

// OnTimelineChanged recomputes the queue window.
func (n *Navigator) OnTimelineChanged(p playback.Player) {
	n.publishWindow(p)
}

// OnActiveIndexChanged updates the queue after the player moved to another
// window. Small timelines fit entirely in the queue, so only the active id
// changes.
func (n *Navigator) OnActiveIndexChanged(p playback.Player) {
	n.mu.Lock()
	unknown := n.activeID == UnknownID
	n.mu.Unlock()

	timeline := p.Timeline()
	if unknown || timeline.WindowCount() > n.windowSize {
		n.publishWindow(p)
		return
	}
	index := p.CurrentWindowIndex()
	if timeline.WindowCount() == 0 || index < 0 || index >= timeline.WindowCount() {
		return
	}

	n.mu.Lock()
	n.activeID = int64(index)
	e := n.changeLocked()
	n.mu.Unlock()
	n.broadcast(e)
}

// publishWindow rebuilds the queue around the current window, extending
// forward then backward in turn. With an even size the tail after the active
// item ends up longer than the head. Repeat all wraps both directions; the
// size bound keeps the two ends from meeting.
func (n *Navigator) publishWindow(p playback.Player) {
	timeline := p.Timeline()
	current := p.CurrentWindowIndex()
	count := timeline.WindowCount()

	if count == 0 || current < 0 || current >= count {
		n.mu.Lock()
		n.items = nil
		n.activeID = UnknownID
		e := n.changeLocked()
		n.mu.Unlock()
		n.broadcast(e)
		return
	}

	shuffled := p.Shuffle()
	repeat := p.RepeatMode().ForNavigation()
	size := min(n.windowSize, count)

	// head is built in reverse and flipped at the end.
	var head []Item
	tail := []Item{windowItem(timeline, current)}
	first, last := current, current
	for (first != playback.IndexUnset || last != playback.IndexUnset) && len(head)+len(tail) < size {
		if last != playback.IndexUnset {
			last = timeline.NextWindowIndex(last, repeat, shuffled)
			if last != playback.IndexUnset {
				tail = append(tail, windowItem(timeline, last))
			}
		}
		if first != playback.IndexUnset && len(head)+len(tail) < size {
			first = timeline.PreviousWindowIndex(first, repeat, shuffled)
			if first != playback.IndexUnset {
				head = append(head, windowItem(timeline, first))
			}
		}
	}

	items := make([]Item, 0, len(head)+len(tail))
	for i := len(head) - 1; i >= 0; i-- {
		items = append(items, head[i])
	}
	items = append(items, tail...)

	n.mu.Lock()
	n.items = items
	n.activeID = int64(current)
	e := n.changeLocked()
	n.mu.Unlock()
	n.broadcast(e)
}

func windowItem(timeline playback.Timeline, index int) Item {
	return Item{ID: int64(index), Track: timeline.Window(index).Track}
}

// navigable reports whether transport requests may act on the player.
func navigable(p playback.Player) bool {
	index := p.CurrentWindowIndex()
	return p.Timeline().WindowCount() > 0 && !p.IsPlayingAd() &&
		index >= 0 && index < p.Timeline().WindowCount()
}

// OnSkipToPrevious moves to the previous window if playback is near the start
// of the current one, or if the current window cannot be seeked. Otherwise it
// restarts the current window.
func (n *Navigator) OnSkipToPrevious(p playback.Player) {
	if !navigable(p) {
		return
	}
	timeline := p.Timeline()
	index := p.CurrentWindowIndex()
	window := timeline.Window(index)
	previous := timeline.PreviousWindowIndex(index, p.RepeatMode().ForNavigation(), p.Shuffle())

	if previous != playback.IndexUnset &&
		(p.Position() <= n.rewindThreshold || (window.Dynamic && !window.Seekable)) {
		p.SeekTo(previous, 0)
		return
	}
	p.SeekTo(index, 0)
}

// OnSkipToNext moves to the next window. At the end of a dynamic window it
// restarts that window instead.
func (n *Navigator) OnSkipToNext(p playback.Player) {
	if !navigable(p) {
		return
	}
	timeline := p.Timeline()
	index := p.CurrentWindowIndex()
	next := timeline.NextWindowIndex(index, p.RepeatMode().ForNavigation(), p.Shuffle())

	switch {
	case next != playback.IndexUnset:
		p.SeekTo(next, 0)
	case timeline.Window(index).Dynamic:
		p.SeekTo(index, 0)
	}
}

// OnSkipToQueueItem moves to the window with the given queue item id. Ids
// outside the timeline are ignored.
func (n *Navigator) OnSkipToQueueItem(p playback.Player, id int64) {
	if !navigable(p) {
		return
	}
	if id < 0 || id >= int64(p.Timeline().WindowCount()) {
		return
	}
	p.SeekTo(int(id), 0)
}

// SupportedActions returns the navigation requests that can currently act.
func (n *Navigator) SupportedActions(p playback.Player) Actions {
	if !navigable(p) {
		return 0
	}
	timeline := p.Timeline()
	index := p.CurrentWindowIndex()
	window := timeline.Window(index)
	repeat := p.RepeatMode().ForNavigation()
	shuffled := p.Shuffle()

	var actions Actions
	if timeline.WindowCount() > 1 {
		actions |= ActionSkipToQueueItem
	}
	if window.Seekable || !window.Dynamic ||
		timeline.PreviousWindowIndex(index, repeat, shuffled) != playback.IndexUnset {
		actions |= ActionSkipToPrevious
	}
	if window.Dynamic || timeline.NextWindowIndex(index, repeat, shuffled) != playback.IndexUnset {
		actions |= ActionSkipToNext
	}
	return actions
}
