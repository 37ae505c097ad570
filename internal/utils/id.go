package utils

import "github.com/google/uuid"

// NewSessionID returns an opaque identifier for a websocket session.
func NewSessionID() string {
	return uuid.NewString()
}

// DefaultUsername derives a display name from a session id, applied when a
// client joins a room without supplying a username.
func DefaultUsername(sid string) string {
	const prefixLen = 5
	if len(sid) > prefixLen {
		sid = sid[:prefixLen]
	}
	return "user_" + sid
}
