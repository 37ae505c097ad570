package core

import "sync"

// Broadcaster delivers events to every client currently subscribed to a
// room. Publish is synchronous: it returns once the event is enqueued for
// each subscriber. A subscriber whose queue is full has the event dropped;
// delivery to one client never blocks delivery to another.
type Broadcaster struct {
	mu    sync.RWMutex
	rooms map[int64]map[*Client]struct{}
}

// NewBroadcaster constructs an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		rooms: make(map[int64]map[*Client]struct{}),
	}
}

// Subscribe adds the client to roomID's subscriber set.
func (b *Broadcaster) Subscribe(c *Client, roomID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.rooms[roomID]
	if subs == nil {
		subs = make(map[*Client]struct{})
		b.rooms[roomID] = subs
	}
	subs[c] = struct{}{}
}

// Unsubscribe removes the client from roomID's subscriber set. Mandatory on
// disconnect so dead connections stop receiving events.
func (b *Broadcaster) Unsubscribe(c *Client, roomID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.rooms[roomID]
	if !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(b.rooms, roomID)
	}
}

// Publish enqueues the event for every subscriber of roomID at the moment of
// the call and returns the number of clients it was queued for.
func (b *Broadcaster) Publish(roomID int64, ev *Event) int {
	b.mu.RLock()
	targets := make([]*Client, 0, len(b.rooms[roomID]))
	for c := range b.rooms[roomID] {
		targets = append(targets, c)
	}
	b.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if c.send(ev) {
			delivered++
		}
	}
	return delivered
}
