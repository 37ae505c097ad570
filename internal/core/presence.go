package core

import (
	"sort"
	"sync"
)

// PresenceEntry is the (room, username) pair a connection is registered under.
type PresenceEntry struct {
	RoomID   int64
	Username string
}

// Presence is the in-memory registry of who is connected to which room.
// It owns its locking; callers never touch the maps directly.
//
// Member sets are reference-counted per (room, username) so a username stays
// listed while at least one live connection maps to it and disappears with
// the last one. A room key is removed entirely once its member set drains.
type Presence struct {
	mu    sync.RWMutex
	conns map[string]PresenceEntry
	rooms map[int64]map[string]int
}

// NewPresence constructs an empty registry.
func NewPresence() *Presence {
	return &Presence{
		conns: make(map[string]PresenceEntry),
		rooms: make(map[int64]map[string]int),
	}
}

// Add registers sid under (roomID, username). If the connection was already
// registered elsewhere, the old entry is removed first and returned so the
// caller can announce the departure.
func (p *Presence) Add(sid string, roomID int64, username string) (prev PresenceEntry, moved bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.conns[sid]; ok {
		p.dropLocked(old)
		prev, moved = old, true
	}

	p.conns[sid] = PresenceEntry{RoomID: roomID, Username: username}
	members := p.rooms[roomID]
	if members == nil {
		members = make(map[string]int)
		p.rooms[roomID] = members
	}
	members[username]++

	return prev, moved
}

// Remove unregisters sid and returns its entry. ok is false when the
// connection had no tracked presence, which is a normal outcome (e.g. a
// disconnect before any join).
func (p *Presence) Remove(sid string) (entry PresenceEntry, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok = p.conns[sid]
	if !ok {
		return PresenceEntry{}, false
	}
	delete(p.conns, sid)
	p.dropLocked(entry)

	return entry, true
}

// Members returns the current member usernames of roomID, sorted. An
// untracked room yields an empty slice, indistinguishable from an empty room.
func (p *Presence) Members(roomID int64) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	members := p.rooms[roomID]
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of distinct usernames present in roomID.
func (p *Presence) Count(roomID int64) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rooms[roomID])
}

// Tracked reports whether roomID has any presence entries at all.
func (p *Presence) Tracked(roomID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.rooms[roomID]
	return ok
}

func (p *Presence) dropLocked(entry PresenceEntry) {
	members, ok := p.rooms[entry.RoomID]
	if !ok {
		return
	}
	if members[entry.Username] <= 1 {
		delete(members, entry.Username)
	} else {
		members[entry.Username]--
	}
	if len(members) == 0 {
		delete(p.rooms, entry.RoomID)
	}
}
