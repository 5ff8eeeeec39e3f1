package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/odeon/internal/playback"
	"github.com/llehouerou/odeon/internal/shuffle"
)

func makeTracks(n int) []playback.Track {
	tracks := make([]playback.Track, n)
	for i := range tracks {
		tracks[i] = playback.Track{ID: int64(i + 100), Title: "track"}
	}
	return tracks
}

func newPlayer(n, index int) *playback.Headless {
	p := playback.NewHeadless()
	p.SetTimeline(playback.NewTrackTimeline(makeTracks(n), nil), index, 0)
	return p
}

// liveTimeline marks every window as a dynamic, non-seekable stream.
type liveTimeline struct {
	*playback.TrackTimeline
}

func (l liveTimeline) Window(index int) playback.Window {
	w := l.TrackTimeline.Window(index)
	w.Dynamic = true
	w.Seekable = false
	return w
}

func ids(items []Item) []int64 {
	result := make([]int64, len(items))
	for i, item := range items {
		result[i] = item.ID
	}
	return result
}

func span(from, to int64) []int64 {
	var result []int64
	for i := from; i <= to; i++ {
		result = append(result, i)
	}
	return result
}

func TestNavigator_InitialState(t *testing.T) {
	nav := New()

	assert.Equal(t, UnknownID, nav.ActiveQueueItemID())
	assert.Empty(t, nav.Queue())
	assert.Equal(t, DefaultWindowSize, nav.WindowSize())
}

func TestNavigator_Window(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		index  int
		repeat playback.RepeatMode
		want   []int64
	}{
		{"middle", 30, 15, playback.RepeatOff, span(11, 20)},
		{"start", 30, 0, playback.RepeatOff, span(0, 9)},
		{"end", 30, 29, playback.RepeatOff, span(20, 29)},
		{"end repeat all wraps", 30, 29, playback.RepeatAll, []int64{25, 26, 27, 28, 29, 0, 1, 2, 3, 4}},
		{"start repeat all wraps", 30, 0, playback.RepeatAll, []int64{26, 27, 28, 29, 0, 1, 2, 3, 4, 5}},
		{"repeat one navigates as off", 30, 29, playback.RepeatOne, span(20, 29)},
		{"small", 3, 1, playback.RepeatOff, []int64{0, 1, 2}},
		{"small repeat all", 3, 0, playback.RepeatAll, []int64{2, 0, 1}},
		{"exact size", 10, 4, playback.RepeatOff, span(0, 9)},
		{"single", 1, 0, playback.RepeatAll, []int64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer(tt.count, tt.index)
			p.SetRepeatMode(tt.repeat)
			nav := New()

			nav.OnTimelineChanged(p)

			assert.Equal(t, tt.want, ids(nav.Queue()))
			assert.Equal(t, int64(tt.index), nav.ActiveQueueItemID())
		})
	}
}

func TestNavigator_WindowBound(t *testing.T) {
	for _, size := range []int{1, 2, 5, 10} {
		for _, count := range []int{1, 3, 10, 11, 40} {
			for _, repeat := range []playback.RepeatMode{playback.RepeatOff, playback.RepeatAll} {
				for _, shuffled := range []bool{false, true} {
					for index := range count {
						p := playback.NewHeadless()
						order := shuffle.NewOrder(count/2, count, 42)
						p.SetTimeline(playback.NewTrackTimeline(makeTracks(count), order), index, 0)
						p.SetRepeatMode(repeat)
						p.SetShuffle(shuffled)
						nav := New(WithWindowSize(size))

						nav.OnTimelineChanged(p)

						got := ids(nav.Queue())
						require.Len(t, got, min(size, count),
							"size %d count %d index %d repeat %v shuffled %v", size, count, index, repeat, shuffled)
						assert.Contains(t, got, int64(index))
						seen := make(map[int64]bool)
						for _, id := range got {
							require.False(t, seen[id], "duplicate id %d in %v", id, got)
							seen[id] = true
						}
					}
				}
			}
		}
	}
}

func TestNavigator_ShuffledWindowFollowsOrder(t *testing.T) {
	order := shuffle.NewOrder(3, 6, 77)
	p := playback.NewHeadless()
	p.SetTimeline(playback.NewTrackTimeline(makeTracks(6), order), 3, 0)
	p.SetShuffle(true)
	nav := New()

	nav.OnTimelineChanged(p)

	want := make([]int64, 0, order.Len())
	for _, i := range order.Indexes() {
		want = append(want, int64(i))
	}
	assert.Equal(t, want, ids(nav.Queue()))
}

func TestNavigator_ItemsCarryTracks(t *testing.T) {
	p := newPlayer(3, 0)
	nav := New()

	nav.OnTimelineChanged(p)

	q := nav.Queue()
	require.Len(t, q, 3)
	assert.Equal(t, int64(100), q[0].Track.ID)
	assert.Equal(t, int64(102), q[2].Track.ID)
}

func TestNavigator_EmptyTimeline(t *testing.T) {
	p := newPlayer(5, 2)
	nav := New()
	nav.OnTimelineChanged(p)

	p.SetTimeline(playback.EmptyTimeline(), 0, 0)
	nav.OnTimelineChanged(p)

	assert.Empty(t, nav.Queue())
	assert.Equal(t, UnknownID, nav.ActiveQueueItemID())
}

func TestNavigator_ActiveIndexChanged_SmallTimelineRelabels(t *testing.T) {
	p := newPlayer(4, 0)
	nav := New()
	nav.OnTimelineChanged(p)
	before := nav.Queue()

	p.SeekTo(3, 0)
	nav.OnActiveIndexChanged(p)

	assert.Equal(t, int64(3), nav.ActiveQueueItemID())
	assert.Equal(t, before, nav.Queue())
}

func TestNavigator_ActiveIndexChanged_LargeTimelineRecomputes(t *testing.T) {
	p := newPlayer(30, 0)
	nav := New()
	nav.OnTimelineChanged(p)
	require.Equal(t, span(0, 9), ids(nav.Queue()))

	p.SeekTo(25, 0)
	nav.OnActiveIndexChanged(p)

	assert.Equal(t, int64(25), nav.ActiveQueueItemID())
	assert.Equal(t, span(20, 29), ids(nav.Queue()))
}

func TestNavigator_ActiveIndexChanged_UnknownRecomputes(t *testing.T) {
	p := newPlayer(4, 2)
	nav := New()

	nav.OnActiveIndexChanged(p)

	assert.Equal(t, int64(2), nav.ActiveQueueItemID())
	assert.Equal(t, []int64{0, 1, 2, 3}, ids(nav.Queue()))
}

func TestNavigator_SkipToPrevious(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		position  time.Duration
		live      bool
		wantIndex int
		wantPos   time.Duration
	}{
		{"near start goes back", 2, 2 * time.Second, false, 1, 0},
		{"at threshold goes back", 2, DefaultRewindThreshold, false, 1, 0},
		{"past threshold restarts", 2, 3001 * time.Millisecond, false, 2, 0},
		{"first item restarts", 0, time.Second, false, 0, 0},
		{"live window goes back", 2, time.Minute, true, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := playback.NewHeadless()
			var tl playback.Timeline = playback.NewTrackTimeline(makeTracks(5), nil)
			if tt.live {
				tl = liveTimeline{playback.NewTrackTimeline(makeTracks(5), nil)}
			}
			p.SetTimeline(tl, tt.index, tt.position)

			New().OnSkipToPrevious(p)

			assert.Equal(t, tt.wantIndex, p.CurrentWindowIndex())
			assert.Equal(t, tt.wantPos, p.Position())
		})
	}
}

func TestNavigator_SkipToPrevious_CustomThreshold(t *testing.T) {
	p := newPlayer(3, 1)
	p.SetPosition(5 * time.Second)

	New(WithRewindThreshold(10 * time.Second)).OnSkipToPrevious(p)

	assert.Equal(t, 0, p.CurrentWindowIndex())
}

func TestNavigator_SkipToNext(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		repeat    playback.RepeatMode
		live      bool
		wantIndex int
		wantPos   time.Duration
	}{
		{"middle", 1, playback.RepeatOff, false, 2, 0},
		{"last stays", 2, playback.RepeatOff, false, 2, 30 * time.Second},
		{"last repeat all wraps", 2, playback.RepeatAll, false, 0, 0},
		{"repeat one still advances", 0, playback.RepeatOne, false, 1, 0},
		{"live last restarts", 2, playback.RepeatOff, true, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := playback.NewHeadless()
			var tl playback.Timeline = playback.NewTrackTimeline(makeTracks(3), nil)
			if tt.live {
				tl = liveTimeline{playback.NewTrackTimeline(makeTracks(3), nil)}
			}
			p.SetTimeline(tl, tt.index, 30*time.Second)
			p.SetRepeatMode(tt.repeat)

			New().OnSkipToNext(p)

			assert.Equal(t, tt.wantIndex, p.CurrentWindowIndex())
			assert.Equal(t, tt.wantPos, p.Position())
		})
	}
}

func TestNavigator_SkipToNext_Shuffled(t *testing.T) {
	order := shuffle.NewOrder(2, 5, 9)
	p := playback.NewHeadless()
	p.SetTimeline(playback.NewTrackTimeline(makeTracks(5), order), 2, 0)
	p.SetShuffle(true)

	New().OnSkipToNext(p)

	assert.Equal(t, order.At(1), p.CurrentWindowIndex())
}

func TestNavigator_SkipToQueueItem(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want int
	}{
		{"valid", 4, 4},
		{"first", 0, 0},
		{"negative", -1, 2},
		{"past end", 5, 2},
		{"unknown", UnknownID, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer(5, 2)

			New().OnSkipToQueueItem(p, tt.id)

			assert.Equal(t, tt.want, p.CurrentWindowIndex())
		})
	}
}

func TestNavigator_NoOps(t *testing.T) {
	t.Run("empty timeline", func(t *testing.T) {
		p := playback.NewHeadless()
		nav := New()

		nav.OnSkipToNext(p)
		nav.OnSkipToPrevious(p)
		nav.OnSkipToQueueItem(p, 0)

		assert.Equal(t, playback.IndexUnset, p.CurrentWindowIndex())
		assert.Equal(t, Actions(0), nav.SupportedActions(p))
	})

	t.Run("playing ad", func(t *testing.T) {
		p := newPlayer(5, 2)
		p.SetPosition(10 * time.Second)
		p.SetPlayingAd(true)
		nav := New()

		nav.OnSkipToNext(p)
		nav.OnSkipToPrevious(p)
		nav.OnSkipToQueueItem(p, 0)

		assert.Equal(t, 2, p.CurrentWindowIndex())
		assert.Equal(t, 10*time.Second, p.Position())
		assert.Equal(t, Actions(0), nav.SupportedActions(p))
	})
}

func TestNavigator_SupportedActions(t *testing.T) {
	all := ActionSkipToPrevious | ActionSkipToNext | ActionSkipToQueueItem

	tests := []struct {
		name   string
		count  int
		index  int
		repeat playback.RepeatMode
		live   bool
		want   Actions
	}{
		{"middle", 3, 1, playback.RepeatOff, false, all},
		{"last", 3, 2, playback.RepeatOff, false, ActionSkipToPrevious | ActionSkipToQueueItem},
		{"last repeat all", 3, 2, playback.RepeatAll, false, all},
		{"single", 1, 0, playback.RepeatOff, false, ActionSkipToPrevious},
		{"single repeat one", 1, 0, playback.RepeatOne, false, ActionSkipToPrevious},
		{"live single", 1, 0, playback.RepeatOff, true, ActionSkipToNext},
		{"live middle", 3, 1, playback.RepeatOff, true, all},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := playback.NewHeadless()
			var tl playback.Timeline = playback.NewTrackTimeline(makeTracks(tt.count), nil)
			if tt.live {
				tl = liveTimeline{playback.NewTrackTimeline(makeTracks(tt.count), nil)}
			}
			p.SetTimeline(tl, tt.index, 0)
			p.SetRepeatMode(tt.repeat)

			assert.Equal(t, tt.want, New().SupportedActions(p))
		})
	}
}

func TestActions_String(t *testing.T) {
	assert.Equal(t, "none", Actions(0).String())
	assert.Equal(t, "previous,skip-to-item", (ActionSkipToPrevious | ActionSkipToQueueItem).String())
	assert.Equal(t, "previous,next,skip-to-item",
		(ActionSkipToPrevious | ActionSkipToNext | ActionSkipToQueueItem).String())
}

func TestNavigator_Subscribe(t *testing.T) {
	p := newPlayer(3, 0)
	nav := New()
	sub := nav.Subscribe()

	nav.OnTimelineChanged(p)
	p.SeekTo(2, 0)
	nav.OnActiveIndexChanged(p)

	first := <-sub.Changed
	assert.Equal(t, int64(0), first.ActiveID)
	assert.Equal(t, []int64{0, 1, 2}, ids(first.Items))

	second := <-sub.Changed
	assert.Equal(t, int64(2), second.ActiveID)

	nav.Close()
	<-sub.Done
}
