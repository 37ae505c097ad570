package store

import (
	"context"
	"errors"
	"time"
)

// Room represents a chat room.
type Room struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Message represents a persisted chat message.
type Message struct {
	ID        int64
	RoomID    int64
	Sender    string
	Content   string
	CreatedAt time.Time
}

var (
	// ErrRoomNotFound is returned when a lookup references a room that does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned when a room with the same name already exists.
	ErrRoomExists = errors.New("room already exists")
)

// RoomStore handles room persistence.
type RoomStore interface {
	// CreateRoom creates a new room. Returns ErrRoomExists on a duplicate name.
	CreateRoom(ctx context.Context, name string) (*Room, error)

	// GetRoomByID retrieves a room by ID. Returns ErrRoomNotFound when absent.
	GetRoomByID(ctx context.Context, id int64) (*Room, error)

	// GetRoomByName retrieves a room by name. Returns ErrRoomNotFound when absent.
	GetRoomByName(ctx context.Context, name string) (*Room, error)

	// ListRooms lists all rooms, newest first.
	ListRooms(ctx context.Context) ([]*Room, error)
}

// MessageStore handles message persistence. The store assigns message IDs
// and timestamps at insert time.
type MessageStore interface {
	// AppendMessage persists a message and returns the stored row.
	AppendMessage(ctx context.Context, roomID int64, sender, content string) (*Message, error)

	// ListMessages retrieves messages from a room in ascending ID order.
	// If beforeID is provided, only messages with a smaller ID are returned.
	// Limit caps the number of returned messages; limit <= 0 applies the
	// store default.
	ListMessages(ctx context.Context, roomID int64, limit int, beforeID *int64) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
