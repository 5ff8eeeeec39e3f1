package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/playback"
	"github.com/llehouerou/odeon/internal/queue"
	"github.com/llehouerou/odeon/internal/state"
)

// Controller owns the active session. It applies transport requests to the
// player and keeps the floating queue and the saved state in step with the
// player's events. All methods are safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	player    *playback.Headless
	navigator *queue.Navigator
	preparer  *Preparer
	store     state.Interface
	events    *playback.Subscription
	session   *Session
}

// NewController creates a controller and subscribes it to the player.
func NewController(
	player *playback.Headless,
	navigator *queue.Navigator,
	preparer *Preparer,
	store state.Interface,
) *Controller {
	return &Controller{
		player:    player,
		navigator: navigator,
		preparer:  preparer,
		store:     store,
		events:    player.Subscribe(),
	}
}

// Session returns the active session, or nil.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) Player() *playback.Headless { return c.player }

func (c *Controller) Queue() []queue.Item { return c.navigator.Queue() }

func (c *Controller) ActiveQueueItemID() int64 { return c.navigator.ActiveQueueItemID() }

func (c *Controller) SupportedActions() queue.Actions {
	return c.navigator.SupportedActions(c.player)
}

// SubscribeQueue registers for changes of the floating queue. Changes are
// dropped while the subscription's buffer is full.
func (c *Controller) SubscribeQueue() *queue.Subscription { return c.navigator.Subscribe() }

// Close ends every queue subscription.
func (c *Controller) Close() { c.navigator.Close() }

// PlayFromMediaID prepares a session for id and starts playing it.
func (c *Controller) PlayFromMediaID(ctx context.Context, id mediaid.MediaID, shuffled bool, seed int64) (*Session, error) {
	s, err := c.preparer.Prepare(ctx, id, shuffled, seed)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = s
	c.player.SetShuffle(shuffled)
	c.player.SetTimeline(s.Timeline, s.FirstIndex, 0)
	c.player.Play()
	c.syncLocked()
	c.saveLocked()

	log.Debug().
		Str("session", s.ID.String()).
		Str("parent", s.Parent.String()).
		Int("tracks", s.Timeline.WindowCount()).
		Int64("seed", s.Seed).
		Msg("Session started")
	return s, nil
}

// Restore rebuilds the saved session with the same queue order, current
// track and position. Playback is left paused.
func (c *Controller) Restore(ctx context.Context) (*Session, error) {
	lp, err := c.store.LastPlayed(ctx)
	if err != nil {
		return nil, err
	}
	if lp == nil {
		return nil, ErrNoSession
	}

	s, err := c.preparer.Rebuild(ctx, lp.SessionID, lp.Parent, lp.FirstIndex, lp.Shuffle, lp.Seed)
	if err != nil {
		return nil, err
	}
	repeat, _ := playback.ParseRepeatMode(lp.RepeatMode)

	current := lp.CurrentIndex
	position := lp.Position
	if current < 0 || current >= s.Timeline.WindowCount() {
		current, position = s.FirstIndex, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = s
	c.player.SetShuffle(lp.Shuffle)
	c.player.SetRepeatMode(repeat)
	c.player.SetTimeline(s.Timeline, current, position)
	c.syncLocked()

	log.Debug().
		Str("session", s.ID.String()).
		Int("index", current).
		Dur("position", position).
		Msg("Session restored")
	return s, nil
}

func (c *Controller) SkipToNext() {
	c.do(func() { c.navigator.OnSkipToNext(c.player) })
}

func (c *Controller) SkipToPrevious() {
	c.do(func() { c.navigator.OnSkipToPrevious(c.player) })
}

func (c *Controller) SkipToQueueItem(id int64) {
	c.do(func() { c.navigator.OnSkipToQueueItem(c.player, id) })
}

func (c *Controller) SetShuffle(enabled bool) {
	c.do(func() { c.player.SetShuffle(enabled) })
}

func (c *Controller) SetRepeatMode(mode playback.RepeatMode) {
	c.do(func() { c.player.SetRepeatMode(mode) })
}

// SetPosition records elapsed playback in the current track.
func (c *Controller) SetPosition(position time.Duration) {
	c.do(func() { c.player.SetPosition(position) })
}

// TrackFinished advances as the end of the current track would. Returns
// false if playback stopped.
func (c *Controller) TrackFinished() bool {
	var advanced bool
	c.do(func() { advanced = c.player.Finish() })
	return advanced
}

func (c *Controller) do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return
	}
	fn()
	c.syncLocked()
	c.saveLocked()
}

// Run applies player events raised outside the controller until ctx is done
// or the player is closed.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.events.Done:
			return nil
		case e := <-c.events.TrackChanged:
			c.mu.Lock()
			c.handleTrack(e)
			c.saveLocked()
			c.mu.Unlock()
		case e := <-c.events.TimelineChanged:
			c.mu.Lock()
			c.handleTimeline(e)
			c.mu.Unlock()
		case e := <-c.events.ModeChanged:
			c.mu.Lock()
			c.handleMode(e)
			c.saveLocked()
			c.mu.Unlock()
		case <-c.events.StateChanged:
		case <-c.events.PositionChanged:
		}
	}
}

// syncLocked applies the events the player has raised so far.
func (c *Controller) syncLocked() {
	for {
		select {
		case e := <-c.events.TrackChanged:
			c.handleTrack(e)
		case e := <-c.events.TimelineChanged:
			c.handleTimeline(e)
		case e := <-c.events.ModeChanged:
			c.handleMode(e)
		case <-c.events.StateChanged:
		case <-c.events.PositionChanged:
		default:
			return
		}
	}
}

func (c *Controller) handleTrack(playback.TrackChange) {
	c.navigator.OnActiveIndexChanged(c.player)
}

func (c *Controller) handleTimeline(playback.TimelineChange) {
	c.navigator.OnTimelineChanged(c.player)
}

// Shuffle changes the navigation order, so the whole window moves.
func (c *Controller) handleMode(playback.ModeChange) {
	c.navigator.OnTimelineChanged(c.player)
}

func (c *Controller) saveLocked() {
	if c.session == nil || c.store == nil {
		return
	}
	c.store.SaveLastPlayed(state.LastPlayed{
		SessionID:    c.session.ID,
		Parent:       c.session.Parent,
		FirstIndex:   c.session.FirstIndex,
		Seed:         c.session.Seed,
		CurrentIndex: c.player.CurrentWindowIndex(),
		Position:     c.player.Position(),
		RepeatMode:   c.player.RepeatMode().String(),
		Shuffle:      c.player.Shuffle(),
	})
}
