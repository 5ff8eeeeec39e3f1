package playback

import (
	"sync"
	"time"
)

// Player is the playback state the queue navigator reads and drives.
type Player interface {
	Timeline() Timeline
	// CurrentWindowIndex returns IndexUnset when nothing is loaded.
	CurrentWindowIndex() int
	Position() time.Duration
	RepeatMode() RepeatMode
	Shuffle() bool
	// IsPlayingAd reports whether interstitial content is playing.
	IsPlayingAd() bool
	SeekTo(windowIndex int, position time.Duration)
}

// Verify Headless implements Player at compile time.
var _ Player = (*Headless)(nil)

// Headless is a Player without audio output. It keeps the timeline, the
// current window and the position, and publishes the matching events.
type Headless struct {
	mu sync.RWMutex

	state     State
	timeline  Timeline
	index     int
	position  time.Duration
	repeat    RepeatMode
	shuffle   bool
	playingAd bool

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

// NewHeadless creates a stopped player with an empty timeline.
func NewHeadless() *Headless {
	return &Headless{
		timeline: EmptyTimeline(),
		index:    IndexUnset,
	}
}

func (h *Headless) Timeline() Timeline {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.timeline
}

func (h *Headless) CurrentWindowIndex() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index
}

func (h *Headless) Position() time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.position
}

func (h *Headless) RepeatMode() RepeatMode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.repeat
}

func (h *Headless) Shuffle() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.shuffle
}

func (h *Headless) IsPlayingAd() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.playingAd
}

func (h *Headless) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// CurrentTrack returns the track of the current window, or nil.
func (h *Headless) CurrentTrack() *Track {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentTrackLocked()
}

func (h *Headless) currentTrackLocked() *Track {
	if h.index < 0 || h.index >= h.timeline.WindowCount() {
		return nil
	}
	t := h.timeline.Window(h.index).Track
	return &t
}

// SeekTo moves to position in the given window. Out of range windows are ignored.
func (h *Headless) SeekTo(windowIndex int, position time.Duration) {
	h.mu.Lock()
	if windowIndex < 0 || windowIndex >= h.timeline.WindowCount() {
		h.mu.Unlock()
		return
	}
	prev := h.index
	h.index = windowIndex
	h.position = max(position, 0)
	current := h.currentTrackLocked()
	pos := h.position
	h.mu.Unlock()

	if prev != windowIndex {
		h.broadcast(func(s *Subscription) {
			s.sendTrack(TrackChange{PreviousIndex: prev, Index: windowIndex, Current: current})
		})
	}
	h.broadcast(func(s *Subscription) { s.sendPosition(pos) })
}

// SetTimeline replaces the timeline and moves to position in window index.
// An out of range index leaves the player without a current window.
func (h *Headless) SetTimeline(tl Timeline, index int, position time.Duration) {
	if tl == nil {
		tl = EmptyTimeline()
	}

	h.mu.Lock()
	prev := h.index
	h.timeline = tl
	if index < 0 || index >= tl.WindowCount() {
		index = IndexUnset
		position = 0
	}
	h.index = index
	h.position = max(position, 0)
	current := h.currentTrackLocked()
	count := tl.WindowCount()
	h.mu.Unlock()

	h.broadcast(func(s *Subscription) {
		s.sendTimeline(TimelineChange{WindowCount: count, Index: index})
		s.sendTrack(TrackChange{PreviousIndex: prev, Index: index, Current: current})
	})
}

// SetPosition moves within the current window, as elapsed playback would.
func (h *Headless) SetPosition(position time.Duration) {
	h.mu.Lock()
	h.position = max(position, 0)
	h.mu.Unlock()
}

func (h *Headless) SetRepeatMode(mode RepeatMode) {
	h.mu.Lock()
	h.repeat = mode
	e := ModeChange{RepeatMode: h.repeat, Shuffle: h.shuffle}
	h.mu.Unlock()
	h.broadcast(func(s *Subscription) { s.sendMode(e) })
}

func (h *Headless) SetShuffle(enabled bool) {
	h.mu.Lock()
	h.shuffle = enabled
	e := ModeChange{RepeatMode: h.repeat, Shuffle: h.shuffle}
	h.mu.Unlock()
	h.broadcast(func(s *Subscription) { s.sendMode(e) })
}

// SetPlayingAd marks interstitial content as playing or finished.
func (h *Headless) SetPlayingAd(playing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playingAd = playing
}

// Play starts playback if a window is loaded.
func (h *Headless) Play() {
	h.mu.RLock()
	loaded := h.index != IndexUnset
	h.mu.RUnlock()
	if loaded {
		h.setState(StatePlaying)
	}
}

func (h *Headless) Pause() {
	if h.State() == StatePlaying {
		h.setState(StatePaused)
	}
}

func (h *Headless) Stop() {
	h.setState(StateStopped)
}

func (h *Headless) setState(state State) {
	h.mu.Lock()
	prev := h.state
	h.state = state
	h.mu.Unlock()

	if prev != state {
		h.broadcast(func(s *Subscription) {
			s.sendState(StateChange{Previous: prev, Current: state})
		})
	}
}

// Finish simulates the end of the current track: playback advances to the
// next window following the repeat and shuffle modes, or stops at the end.
// Returns false if playback stopped.
func (h *Headless) Finish() bool {
	h.mu.RLock()
	next := IndexUnset
	if h.index != IndexUnset {
		next = h.timeline.NextWindowIndex(h.index, h.repeat, h.shuffle)
	}
	h.mu.RUnlock()

	if next == IndexUnset {
		h.Stop()
		return false
	}
	h.SeekTo(next, 0)
	return true
}

// Subscribe creates a new event subscription.
func (h *Headless) Subscribe() *Subscription {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	sub := newSubscription()
	if h.closed {
		sub.close()
		return sub
	}
	h.subs = append(h.subs, sub)
	return sub
}

// Close closes every subscription.
func (h *Headless) Close() error {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for _, sub := range h.subs {
		sub.close()
	}
	h.subs = nil
	return nil
}

func (h *Headless) broadcast(send func(*Subscription)) {
	h.subsMu.RLock()
	defer h.subsMu.RUnlock()
	for _, sub := range h.subs {
		send(sub)
	}
}
