package library

import (
	"sync"

	"github.com/samber/lo"
)

const changeBufferSize = 16

// Subscription delivers change notifications to one subscriber, in order.
type Subscription struct {
	Changes <-chan ChangeNotification
	Done    <-chan struct{}

	changesCh chan ChangeNotification
	doneCh    chan struct{}
	closeOnce sync.Once
}

func newSubscription() *Subscription {
	s := &Subscription{
		changesCh: make(chan ChangeNotification, changeBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.Changes = s.changesCh
	s.Done = s.doneCh
	return s
}

// Close stops delivery. Pending sends to this subscription are abandoned.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() { close(s.doneCh) })
}

// send blocks until the notification is buffered or the subscription is
// closed. Returns false if the subscription is closed.
func (s *Subscription) send(n ChangeNotification) bool {
	select {
	case <-s.doneCh:
		return false
	default:
	}
	select {
	case s.changesCh <- n:
		return true
	case <-s.doneCh:
		return false
	}
}

// Broadcaster fans change notifications out to subscriptions.
// Repository implementations embed it to satisfy Repository.Subscribe.
type Broadcaster struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Subscribe creates a new subscription. Publish waits for every open
// subscription to buffer each notification, so the subscriber must keep
// reading Changes or Close it.
func (b *Broadcaster) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := newSubscription()
	b.subs = append(b.subs, sub)
	return sub
}

// Publish delivers the notifications, in order, to every open subscription.
// Callers must not hold locks that subscribers need to make progress.
func (b *Broadcaster) Publish(notifications ...ChangeNotification) {
	if len(notifications) == 0 {
		return
	}

	b.mu.Lock()
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	var closed []*Subscription
	for _, sub := range subs {
		for _, n := range notifications {
			if !sub.send(n) {
				closed = append(closed, sub)
				break
			}
		}
	}
	if len(closed) > 0 {
		b.prune(closed)
	}
}

// CloseAll closes every subscription.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		sub.Close()
	}
	b.subs = nil
}

func (b *Broadcaster) prune(closed []*Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = lo.Without(b.subs, closed...)
}
