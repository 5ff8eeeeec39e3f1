package browser

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/mediaid"
)

const staleBufferSize = 32

// DefaultDeliveryTimeout is how long Run waits on a subscriber whose buffer
// is full before closing it.
const DefaultDeliveryTimeout = 5 * time.Second

// StaleIDs returns the tree nodes whose children are invalidated by n.
func StaleIDs(n library.ChangeNotification) []mediaid.MediaID {
	switch n := n.(type) {
	case library.AllTracks:
		return lo.Map(mediaid.TrackCategories, func(c string, _ int) mediaid.MediaID {
			return mediaid.ForCategory(mediaid.TypeTracks, c)
		})
	case library.AllAlbums:
		return []mediaid.MediaID{mediaid.ForType(mediaid.TypeAlbums)}
	case library.AllArtists:
		return []mediaid.MediaID{mediaid.ForType(mediaid.TypeArtists)}
	case library.AllPlaylists:
		return []mediaid.MediaID{mediaid.ForType(mediaid.TypePlaylists)}
	case library.AlbumChanged:
		return []mediaid.MediaID{mediaid.ForEntity(mediaid.TypeAlbums, n.ID)}
	case library.ArtistChanged:
		return []mediaid.MediaID{mediaid.ForEntity(mediaid.TypeArtists, n.ID)}
	case library.PlaylistChanged:
		return []mediaid.MediaID{mediaid.ForEntity(mediaid.TypePlaylists, n.ID)}
	default:
		return nil
	}
}

// Subscription delivers the ids of stale tree nodes, in notification order.
// Repeated notifications produce repeated ids.
type Subscription struct {
	UpdatedParentIDs <-chan mediaid.MediaID
	Done             <-chan struct{}

	idsCh     chan mediaid.MediaID
	doneCh    chan struct{}
	closeOnce sync.Once
}

func newSubscription() *Subscription {
	s := &Subscription{
		idsCh:  make(chan mediaid.MediaID, staleBufferSize),
		doneCh: make(chan struct{}),
	}
	s.UpdatedParentIDs = s.idsCh
	s.Done = s.doneCh
	return s
}

// Close stops delivery to this subscription.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() { close(s.doneCh) })
}

// send delivers id, waiting at most timeout for buffer space. Returns false
// if the subscription is closed, ctx is done or the wait timed out.
func (s *Subscription) send(ctx context.Context, id mediaid.MediaID, timeout time.Duration) bool {
	select {
	case <-s.doneCh:
		return false
	default:
	}
	select {
	case s.idsCh <- id:
		return true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s.idsCh <- id:
		return true
	case <-s.doneCh:
		return false
	case <-ctx.Done():
		return false
	case <-timer.C:
		log.Warn().Stringer("id", id).Dur("timeout", timeout).Msg("Closing stalled stale id subscriber")
		return false
	}
}

// Subscribe registers for stale node ids. Ids are only delivered while Run
// is active. The subscriber must keep reading UpdatedParentIDs or Close the
// subscription: one whose buffer stays full for the delivery timeout is
// closed and stops receiving ids.
func (t *Tree) Subscribe() *Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	sub := newSubscription()
	t.subs = append(t.subs, sub)
	return sub
}

// Run forwards repository change notifications as stale node ids until ctx
// is done or the repository closes its subscription. Every subscription is
// closed when Run returns.
func (t *Tree) Run(ctx context.Context) error {
	return t.Serve(ctx, t.repo.Subscribe())
}

// Serve is Run over a repository subscription taken by the caller, so that
// notifications published before Serve starts are not missed. Serve closes
// changes when it returns.
func (t *Tree) Serve(ctx context.Context, changes *library.Subscription) error {
	defer changes.Close()
	defer t.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes.Done:
			return nil
		case n := <-changes.Changes:
			ids := StaleIDs(n)
			log.Debug().Stringer("change", n).Int("stale", len(ids)).Msg("Library change")
			t.publish(ctx, ids)
		}
	}
}

func (t *Tree) publish(ctx context.Context, ids []mediaid.MediaID) {
	t.mu.Lock()
	subs := make([]*Subscription, len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	var closed []*Subscription
	for _, sub := range subs {
		for _, id := range ids {
			if !sub.send(ctx, id, t.deliveryTimeout) {
				if ctx.Err() == nil {
					sub.Close()
					closed = append(closed, sub)
				}
				break
			}
		}
	}
	if len(closed) > 0 {
		t.mu.Lock()
		t.subs = lo.Without(t.subs, closed...)
		t.mu.Unlock()
	}
}

func (t *Tree) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subs {
		sub.Close()
	}
	t.subs = nil
}
