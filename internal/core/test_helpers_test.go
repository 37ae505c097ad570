package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akorchagin/roomchat-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func noEvent(t *testing.T, ch <-chan *Event, wait time.Duration) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(wait):
	}
}

// memStore is an in-memory store.Store used by hub tests.
type memStore struct {
	mu       sync.Mutex
	rooms    map[int64]*store.Room
	byName   map[string]int64
	messages []*store.Message
	nextRoom int64
	nextMsg  int64
}

func newMemStore() *memStore {
	return &memStore{
		rooms:  make(map[int64]*store.Room),
		byName: make(map[string]int64),
	}
}

func (m *memStore) CreateRoom(_ context.Context, name string) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[name]; exists {
		return nil, store.ErrRoomExists
	}
	m.nextRoom++
	room := &store.Room{ID: m.nextRoom, Name: name, CreatedAt: time.Now()}
	m.rooms[room.ID] = room
	m.byName[name] = room.ID
	return room, nil
}

func (m *memStore) GetRoomByID(_ context.Context, id int64) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return room, nil
}

func (m *memStore) GetRoomByName(_ context.Context, name string) (*store.Room, error) {
	m.mu.Lock()
	id, ok := m.byName[name]
	m.mu.Unlock()
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return m.GetRoomByID(context.Background(), id)
}

func (m *memStore) ListRooms(_ context.Context) ([]*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rooms := make([]*store.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (m *memStore) AppendMessage(_ context.Context, roomID int64, sender, content string) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextMsg++
	msg := &store.Message{
		ID:        m.nextMsg,
		RoomID:    roomID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memStore) ListMessages(_ context.Context, roomID int64, limit int, beforeID *int64) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*store.Message
	for _, msg := range m.messages {
		if msg.RoomID != roomID {
			continue
		}
		if beforeID != nil && msg.ID >= *beforeID {
			continue
		}
		out = append(out, msg)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) messageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}
