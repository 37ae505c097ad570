package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom    = "join_room"
	InboundTypeSendMessage = "send_message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameUserJoined = "user_joined"
	EventNameUserLeft   = "user_left"
	EventNameNewMessage = "new_message"
)

// JoinRoomData requests to join a specific room. Username is optional; the
// server derives one from the session id when it is empty.
type JoinRoomData struct {
	RoomID   int64  `json:"room_id"`
	Username string `json:"username,omitempty"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	RoomID  int64  `json:"room_id"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventUserJoined notifies room subscribers that a user joined.
type EventUserJoined struct {
	SID      string `json:"sid"`
	Username string `json:"username"`
}

// EventUserLeft notifies room subscribers that a user left.
type EventUserLeft struct {
	SID      string `json:"sid"`
	Username string `json:"username"`
}

// EventNewMessage carries a persisted message to room subscribers.
// Timestamp is the store-assigned creation time serialized as RFC3339.
type EventNewMessage struct {
	ID        int64  `json:"id"`
	RoomID    int64  `json:"room_id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Error describes a protocol-level error, sent only to the originating
// connection.
type Error struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}
