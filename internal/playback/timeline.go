package playback

import "github.com/llehouerou/odeon/internal/shuffle"

// IndexUnset marks the absence of a window index.
const IndexUnset = -1

// Window is one playable item of a timeline.
type Window struct {
	Track Track
	// Dynamic windows may still grow (live streams). Skipping past the end
	// of a dynamic window restarts it instead.
	Dynamic  bool
	Seekable bool
}

// Timeline is the ordered list of windows a player moves through.
type Timeline interface {
	WindowCount() int
	Window(index int) Window
	// NextWindowIndex returns the window played after index, or IndexUnset.
	NextWindowIndex(index int, repeat RepeatMode, shuffled bool) int
	// PreviousWindowIndex returns the window played before index, or IndexUnset.
	PreviousWindowIndex(index int, repeat RepeatMode, shuffled bool) int
	FirstWindowIndex(shuffled bool) int
	LastWindowIndex(shuffled bool) int
}

// Verify TrackTimeline implements Timeline at compile time.
var _ Timeline = (*TrackTimeline)(nil)

// TrackTimeline is a finite list of seekable tracks, played in list order or
// in a shuffle order.
type TrackTimeline struct {
	tracks []Track
	order  *shuffle.Order
}

// NewTrackTimeline creates a timeline over tracks. order may be nil, in which
// case shuffled navigation falls back to list order.
func NewTrackTimeline(tracks []Track, order *shuffle.Order) *TrackTimeline {
	if order != nil && order.Len() != len(tracks) {
		order = nil
	}
	return &TrackTimeline{tracks: tracks, order: order}
}

// EmptyTimeline returns a timeline without windows.
func EmptyTimeline() *TrackTimeline {
	return &TrackTimeline{}
}

// Order returns the shuffle order, or nil.
func (t *TrackTimeline) Order() *shuffle.Order { return t.order }

// Tracks returns the tracks in list order.
func (t *TrackTimeline) Tracks() []Track { return t.tracks }

func (t *TrackTimeline) WindowCount() int { return len(t.tracks) }

func (t *TrackTimeline) Window(index int) Window {
	return Window{Track: t.tracks[index], Seekable: true}
}

func (t *TrackTimeline) FirstWindowIndex(shuffled bool) int {
	if len(t.tracks) == 0 {
		return IndexUnset
	}
	if shuffled && t.order != nil {
		return t.order.First()
	}
	return 0
}

func (t *TrackTimeline) LastWindowIndex(shuffled bool) int {
	if len(t.tracks) == 0 {
		return IndexUnset
	}
	if shuffled && t.order != nil {
		return t.order.Last()
	}
	return len(t.tracks) - 1
}

func (t *TrackTimeline) NextWindowIndex(index int, repeat RepeatMode, shuffled bool) int {
	if index < 0 || index >= len(t.tracks) {
		return IndexUnset
	}
	if repeat == RepeatOne {
		return index
	}
	if index == t.LastWindowIndex(shuffled) {
		if repeat == RepeatAll {
			return t.FirstWindowIndex(shuffled)
		}
		return IndexUnset
	}
	if shuffled && t.order != nil {
		return t.order.Next(index)
	}
	return index + 1
}

func (t *TrackTimeline) PreviousWindowIndex(index int, repeat RepeatMode, shuffled bool) int {
	if index < 0 || index >= len(t.tracks) {
		return IndexUnset
	}
	if repeat == RepeatOne {
		return index
	}
	if index == t.FirstWindowIndex(shuffled) {
		if repeat == RepeatAll {
			return t.LastWindowIndex(shuffled)
		}
		return IndexUnset
	}
	if shuffled && t.order != nil {
		return t.order.Previous(index)
	}
	return index - 1
}
