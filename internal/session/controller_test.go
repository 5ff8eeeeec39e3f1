package session

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/odeon/internal/browser"
	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/playback"
	"github.com/llehouerou/odeon/internal/queue"
	"github.com/llehouerou/odeon/internal/state"
)

func newController(repo library.Repository, store state.Interface) *Controller {
	return NewController(
		playback.NewHeadless(),
		queue.New(queue.WithWindowSize(5)),
		NewPreparer(browser.New(repo)),
		store,
	)
}

func queueIDs(items []queue.Item) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestController_PlayFromMediaID(t *testing.T) {
	store := state.NewMock()
	c := newController(setupRepo(t), store)

	s, err := c.PlayFromMediaID(context.Background(), mediaid.MustParse("albums/40|106"), false, 8)
	require.NoError(t, err)

	assert.Same(t, s, c.Session())
	assert.Equal(t, playback.StatePlaying, c.Player().State())
	assert.Equal(t, 5, c.Player().CurrentWindowIndex())
	assert.Equal(t, int64(5), c.ActiveQueueItemID())
	assert.Equal(t, []int64{3, 4, 5, 6, 7}, queueIDs(c.Queue()))

	lp, err := store.LastPlayed(context.Background())
	require.NoError(t, err)
	require.NotNil(t, lp)
	assert.Equal(t, s.ID, lp.SessionID)
	assert.Equal(t, "albums/40", lp.Parent.String())
	assert.Equal(t, 5, lp.FirstIndex)
	assert.Equal(t, int64(8), lp.Seed)
	assert.Equal(t, 5, lp.CurrentIndex)
	assert.Equal(t, "Off", lp.RepeatMode)
	assert.False(t, lp.Shuffle)
}

func TestController_PlayFromMediaID_Error(t *testing.T) {
	store := state.NewMock()
	c := newController(setupRepo(t), store)

	_, err := c.PlayFromMediaID(context.Background(), mediaid.MustParse("playlists/8"), false, 1)
	assert.ErrorIs(t, err, ErrNothingToPlay)
	assert.Nil(t, c.Session())
	assert.Equal(t, 0, store.Saves())
}

func TestController_Skips(t *testing.T) {
	store := state.NewMock()
	c := newController(setupRepo(t), store)
	_, err := c.PlayFromMediaID(context.Background(), mediaid.MustParse("albums/40"), false, 1)
	require.NoError(t, err)

	c.SkipToNext()
	c.SkipToNext()
	assert.Equal(t, 2, c.Player().CurrentWindowIndex())
	assert.Equal(t, int64(2), c.ActiveQueueItemID())
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, queueIDs(c.Queue()))

	c.SkipToQueueItem(9)
	assert.Equal(t, int64(9), c.ActiveQueueItemID())
	assert.Equal(t, []int64{7, 8, 9, 10, 11}, queueIDs(c.Queue()))

	// Past the rewind threshold the track restarts.
	c.SetPosition(10 * time.Second)
	c.SkipToPrevious()
	assert.Equal(t, 9, c.Player().CurrentWindowIndex())
	assert.Equal(t, time.Duration(0), c.Player().Position())

	c.SkipToPrevious()
	assert.Equal(t, 8, c.Player().CurrentWindowIndex())

	lp, err := store.LastPlayed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, lp.CurrentIndex)
}

func TestController_SubscribeQueue(t *testing.T) {
	c := newController(setupRepo(t), state.NewMock())
	_, err := c.PlayFromMediaID(context.Background(), mediaid.MustParse("albums/40"), false, 1)
	require.NoError(t, err)

	sub := c.SubscribeQueue()
	c.SkipToNext()

	var changes []queue.QueueChange
drain:
	for {
		select {
		case e := <-sub.Changed:
			changes = append(changes, e)
		default:
			break drain
		}
	}
	require.NotEmpty(t, changes)
	last := changes[len(changes)-1]
	assert.Equal(t, int64(1), last.ActiveID)
	assert.Equal(t, queueIDs(c.Queue()), queueIDs(last.Items))

	c.Close()
	select {
	case <-sub.Done:
	default:
		t.Fatal("queue subscription still open after Close")
	}
}

func TestController_ShuffledSession(t *testing.T) {
	c := newController(setupRepo(t), state.NewMock())
	s, err := c.PlayFromMediaID(context.Background(), mediaid.MustParse("albums/40|103"), true, 2024)
	require.NoError(t, err)
	order := s.Order()

	assert.Equal(t, 2, c.Player().CurrentWindowIndex())
	want := make([]int64, 5)
	for i := range want {
		want[i] = int64(order.At(i))
	}
	assert.Equal(t, want, queueIDs(c.Queue()))

	c.SkipToNext()
	assert.Equal(t, order.At(1), c.Player().CurrentWindowIndex())

	c.SetShuffle(false)
	current := c.Player().CurrentWindowIndex()
	assert.Contains(t, queueIDs(c.Queue()), int64(current))
	assert.Equal(t, int64(current), c.ActiveQueueItemID())
}

func TestController_RepeatAndFinish(t *testing.T) {
	c := newController(setupRepo(t), state.NewMock())
	_, err := c.PlayFromMediaID(context.Background(), mediaid.MustParse("playlists/7"), false, 1)
	require.NoError(t, err)

	assert.True(t, c.TrackFinished())
	assert.Equal(t, int64(1), c.ActiveQueueItemID())
	assert.False(t, c.TrackFinished())
	assert.Equal(t, playback.StateStopped, c.Player().State())

	c.SetRepeatMode(playback.RepeatAll)
	assert.True(t, c.TrackFinished())
	assert.Equal(t, int64(0), c.ActiveQueueItemID())
}

func TestController_NoSessionIsNoOp(t *testing.T) {
	store := state.NewMock()
	c := newController(setupRepo(t), store)

	c.SkipToNext()
	c.SkipToPrevious()
	c.SetShuffle(true)
	assert.False(t, c.TrackFinished())

	assert.Equal(t, 0, store.Saves())
	assert.Equal(t, queue.UnknownID, c.ActiveQueueItemID())
	assert.Equal(t, queue.Actions(0), c.SupportedActions())
}

func TestController_Restore(t *testing.T) {
	repo := setupRepo(t)
	store := state.NewMock()
	ctx := context.Background()

	first := newController(repo, store)
	s, err := first.PlayFromMediaID(ctx, mediaid.MustParse("albums/40|108"), true, 31337)
	require.NoError(t, err)
	first.SkipToNext()
	first.SkipToNext()
	first.SetRepeatMode(playback.RepeatAll)
	first.SetPosition(42 * time.Second)

	second := newController(repo, store)
	restored, err := second.Restore(ctx)
	require.NoError(t, err)

	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, s.Order().Indexes(), restored.Order().Indexes())
	assert.Equal(t, first.Player().CurrentWindowIndex(), second.Player().CurrentWindowIndex())
	assert.Equal(t, 42*time.Second, second.Player().Position())
	assert.Equal(t, playback.RepeatAll, second.Player().RepeatMode())
	assert.True(t, second.Player().Shuffle())
	assert.Equal(t, queueIDs(first.Queue()), queueIDs(second.Queue()))
	assert.Equal(t, playback.StateStopped, second.Player().State())
}

func TestController_RestoreWithoutSession(t *testing.T) {
	c := newController(setupRepo(t), state.NewMock())

	_, err := c.Restore(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestController_RestoreOutOfRangeIndex(t *testing.T) {
	repo := setupRepo(t)
	store := state.NewMock()
	s, err := NewPreparer(browser.New(repo)).Prepare(context.Background(), mediaid.MustParse("albums/40|102"), false, 5)
	require.NoError(t, err)
	store.SetLastPlayed(&state.LastPlayed{
		SessionID:    s.ID,
		Parent:       s.Parent,
		FirstIndex:   s.FirstIndex,
		Seed:         s.Seed,
		CurrentIndex: 50,
		Position:     time.Minute,
	})

	c := newController(repo, store)
	_, err = c.Restore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, c.Player().CurrentWindowIndex())
	assert.Equal(t, time.Duration(0), c.Player().Position())
}

func TestController_RestoreStale(t *testing.T) {
	store := state.NewMock()
	store.SetLastPlayed(&state.LastPlayed{
		Parent:     mediaid.MustParse("playlists/7"),
		FirstIndex: 6,
	})

	_, err := newController(setupRepo(t), store).Restore(context.Background())
	assert.ErrorIs(t, err, ErrStale)
}

func TestController_RunFollowsPlayerEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newController(setupRepo(t), state.NewMock())
		_, err := c.PlayFromMediaID(context.Background(), mediaid.MustParse("albums/40"), false, 1)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- c.Run(ctx) }()

		for range 6 {
			c.Player().Finish()
		}
		synctest.Wait()

		assert.Equal(t, int64(6), c.ActiveQueueItemID())
		assert.Equal(t, []int64{4, 5, 6, 7, 8}, queueIDs(c.Queue()))

		cancel()
		assert.NoError(t, <-done)
	})
}

func TestController_RunStopsWhenPlayerCloses(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newController(setupRepo(t), state.NewMock())

		done := make(chan error, 1)
		go func() { done <- c.Run(context.Background()) }()
		synctest.Wait()

		require.NoError(t, c.Player().Close())
		assert.NoError(t, <-done)
	})
}
