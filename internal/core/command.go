package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room.
	CommandJoinRoom CommandKind = iota
	// CommandSendMessage persists a chat message and delivers it to room subscribers.
	CommandSendMessage
)

// Command represents an action requested by a client over the push channel.
type Command struct {
	Kind     CommandKind
	RoomID   int64
	Username string // for CommandJoinRoom; empty means "derive from session id"
	Sender   string // for CommandSendMessage
	Text     string // for CommandSendMessage
}
