package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventNewMessage notifies clients about a persisted chat message in a room.
	EventNewMessage EventKind = iota
	// EventUserJoined notifies clients about a user joining a room.
	EventUserJoined
	// EventUserLeft notifies clients about a user leaving a room.
	EventUserLeft
	// EventError notifies a single client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	RoomID   int64
	SID      string
	Username string
	Message  Message
	Error    *CoreError
}
