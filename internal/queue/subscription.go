package queue

const changeBufferSize = 16

// QueueChange is published whenever the queue or the active item changes.
type QueueChange struct {
	Items    []Item
	ActiveID int64
}

// Subscription provides queue change events for a subscriber.
type Subscription struct {
	Changed <-chan QueueChange
	Done    <-chan struct{}

	changeCh chan QueueChange
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		changeCh: make(chan QueueChange, changeBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Changed = s.changeCh
	s.Done = s.doneCh
	return s
}

// send delivers e without blocking. A full buffer drops the event; the
// latest queue is always available from Navigator.Queue.
func (s *Subscription) send(e QueueChange) {
	select {
	case s.changeCh <- e:
	default:
	}
}

// Subscribe creates a new queue change subscription.
func (n *Navigator) Subscribe() *Subscription {
	n.subsMu.Lock()
	defer n.subsMu.Unlock()
	sub := newSubscription()
	n.subs = append(n.subs, sub)
	return sub
}

// Close closes every subscription.
func (n *Navigator) Close() {
	n.subsMu.Lock()
	defer n.subsMu.Unlock()
	for _, sub := range n.subs {
		close(sub.doneCh)
	}
	n.subs = nil
}

// changeLocked snapshots the queue. n.mu must be held.
func (n *Navigator) changeLocked() QueueChange {
	items := make([]Item, len(n.items))
	copy(items, n.items)
	return QueueChange{Items: items, ActiveID: n.activeID}
}

func (n *Navigator) broadcast(e QueueChange) {
	n.subsMu.RLock()
	defer n.subsMu.RUnlock()
	for _, sub := range n.subs {
		sub.send(e)
	}
}
