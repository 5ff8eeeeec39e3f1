// Package session prepares playback sessions from media ids and drives the
// player and the floating queue for the active one.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/llehouerou/odeon/internal/browser"
	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/playback"
	"github.com/llehouerou/odeon/internal/shuffle"
)

var (
	// ErrNothingToPlay is returned when the requested node has no playable children.
	ErrNothingToPlay = errors.New("nothing to play")
	// ErrNoSession is returned by Restore when no session was saved.
	ErrNoSession = errors.New("no saved session")
	// ErrStale is returned when a saved session no longer matches the library.
	ErrStale = errors.New("saved session no longer matches the library")
)

// Session is one prepared playback: the playable children of Parent in
// display order, and the shuffle order derived from FirstIndex and Seed.
type Session struct {
	ID         uuid.UUID
	Parent     mediaid.MediaID
	FirstIndex int
	Seed       int64
	Shuffle    bool
	Timeline   *playback.TrackTimeline
}

// Order returns the shuffle order of the session.
func (s *Session) Order() *shuffle.Order {
	return s.Timeline.Order()
}

// Source resolves the playable children of a browsable id.
type Source interface {
	PlayableChildren(ctx context.Context, id mediaid.MediaID) ([]browser.Playable, error)
}

// Verify Tree implements Source at compile time.
var _ Source = (*browser.Tree)(nil)

// Preparer builds sessions from media ids.
type Preparer struct {
	source Source
}

func NewPreparer(source Source) *Preparer {
	return &Preparer{source: source}
}

// Prepare builds a session for id. A leaf plays its parent's playable
// children starting from the leaf; a browsable id plays its own playable
// children from the first one. The shuffle order always starts with the
// starting item.
func (p *Preparer) Prepare(ctx context.Context, id mediaid.MediaID, shuffled bool, seed int64) (*Session, error) {
	if !id.IsValid() {
		return nil, browser.ErrNoSuchNode
	}

	parent := id.WithoutTrack()
	items, err := p.source.PlayableChildren(ctx, parent)
	if err != nil {
		return nil, err
	}

	first := 0
	if id.IsLeaf() {
		_, first, _ = lo.FindIndexOf(items, func(item browser.Playable) bool {
			return item.Node.MediaID == id
		})
		if first < 0 {
			return nil, browser.ErrNoSuchNode
		}
	}
	if len(items) == 0 {
		return nil, ErrNothingToPlay
	}

	return build(uuid.New(), parent, items, first, shuffled, seed), nil
}

// Rebuild prepares the children of parent again with a known first index
// and seed, reproducing the order of an earlier session.
func (p *Preparer) Rebuild(ctx context.Context, id uuid.UUID, parent mediaid.MediaID, first int, shuffled bool, seed int64) (*Session, error) {
	items, err := p.source.PlayableChildren(ctx, parent)
	if err != nil {
		return nil, err
	}
	if first < 0 || first >= len(items) {
		return nil, fmt.Errorf("%w: %s has %d items, first index %d", ErrStale, parent, len(items), first)
	}
	return build(id, parent, items, first, shuffled, seed), nil
}

func build(id uuid.UUID, parent mediaid.MediaID, items []browser.Playable, first int, shuffled bool, seed int64) *Session {
	tracks := lo.Map(items, func(item browser.Playable, _ int) playback.Track {
		return playback.NewTrack(item.Node.MediaID, item.Track)
	})
	order := shuffle.NewOrder(first, len(tracks), seed)
	return &Session{
		ID:         id,
		Parent:     parent,
		FirstIndex: first,
		Seed:       order.Seed(),
		Shuffle:    shuffled,
		Timeline:   playback.NewTrackTimeline(tracks, order),
	}
}
