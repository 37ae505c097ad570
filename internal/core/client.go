package core

// Client is a connected chat participant as seen by the core layer.
// A client corresponds to one network connection; its session id is opaque
// and never persisted.
type Client struct {
	SID      string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(sid string) *Client {
	return &Client{
		SID:      sid,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
	}
}

// send enqueues an event without blocking. Returns false if the client's
// queue is full and the event was dropped.
func (c *Client) send(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
