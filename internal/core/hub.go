package core

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/akorchagin/roomchat-server/internal/store"
	"github.com/akorchagin/roomchat-server/internal/utils"
)

// Hub coordinates connection lifecycle, presence and message flow. Commands
// from registered clients are funneled into a single dispatch loop; the REST
// layer calls SubmitMessage and Members directly, which is safe because the
// presence registry and broadcaster own their locking.
type Hub struct {
	store     store.Store
	presence  *Presence
	broadcast *Broadcaster
	log       zerolog.Logger

	commands chan clientCommand
	done     chan struct{}

	mu      sync.Mutex
	clients map[*Client]struct{}
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub creates a hub backed by the given durable store.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		store:     st,
		presence:  NewPresence(),
		broadcast: NewBroadcaster(),
		log:       *logger,
		commands:  make(chan clientCommand, 64),
		done:      make(chan struct{}),
		clients:   make(map[*Client]struct{}),
	}
}

// Run dispatches client commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case cc := <-h.commands:
			h.dispatch(ctx, cc.client, cc.cmd)
		case <-ctx.Done():
			close(h.done)
			return
		}
	}
}

// Done is closed once the dispatch loop has exited. Transports use it to stop
// queueing commands that nothing will drain.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// RegisterClient starts serving the client's command channel.
func (h *Hub) RegisterClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.Debug().Str("sid", c.SID).Msg("client connected")

	go func() {
		for cmd := range c.Commands {
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-h.done:
				return
			}
		}
	}()
}

// UnregisterClient runs disconnect cleanup: the connection's presence entry
// is removed and, if one existed, a user_left event goes out to the room's
// remaining subscribers. Safe to call for clients that never joined a room
// and idempotent on repeat calls.
func (h *Hub) UnregisterClient(c *Client) {
	h.mu.Lock()
	_, registered := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if registered {
		close(c.Commands)
	}

	entry, ok := h.presence.Remove(c.SID)
	if !ok {
		h.log.Debug().Str("sid", c.SID).Msg("client disconnected without presence")
		return
	}

	h.broadcast.Unsubscribe(c, entry.RoomID)
	h.broadcast.Publish(entry.RoomID, &Event{
		Kind:     EventUserLeft,
		RoomID:   entry.RoomID,
		SID:      c.SID,
		Username: entry.Username,
	})
	h.log.Info().
		Str("sid", c.SID).
		Int64("room_id", entry.RoomID).
		Str("username", entry.Username).
		Msg("client left room")
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	h.mu.Lock()
	_, registered := h.clients[c]
	h.mu.Unlock()
	if !registered {
		// Command was queued before the client disconnected; cleanup already
		// ran, so acting on it would leave stale presence behind.
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		h.Join(c, cmd.RoomID, cmd.Username)
	case CommandSendMessage:
		if _, err := h.SubmitMessage(ctx, cmd.RoomID, cmd.Sender, cmd.Text); err != nil {
			c.send(&Event{Kind: EventError, Error: asCoreError(err)})
		}
	}
}

// Join registers the client's presence in roomID and subscribes it to the
// room's events. An empty username falls back to a name derived from the
// session id. If the client was already present in another room it
// implicitly leaves it first. Room existence is not checked here; only
// message submission validates the room against the store.
func (h *Hub) Join(c *Client, roomID int64, username string) {
	if username == "" {
		username = utils.DefaultUsername(c.SID)
	}

	prev, moved := h.presence.Add(c.SID, roomID, username)
	if moved {
		if prev.RoomID == roomID && prev.Username == username {
			// Re-join of the same room under the same name is a no-op.
			return
		}
		if prev.RoomID != roomID {
			h.broadcast.Unsubscribe(c, prev.RoomID)
		}
		h.broadcast.Publish(prev.RoomID, &Event{
			Kind:     EventUserLeft,
			RoomID:   prev.RoomID,
			SID:      c.SID,
			Username: prev.Username,
		})
	}

	h.broadcast.Subscribe(c, roomID)
	h.broadcast.Publish(roomID, &Event{
		Kind:     EventUserJoined,
		RoomID:   roomID,
		SID:      c.SID,
		Username: username,
	})
	h.log.Info().
		Str("sid", c.SID).
		Int64("room_id", roomID).
		Str("username", username).
		Msg("client joined room")
}

// SubmitMessage runs the persist-then-broadcast pipeline: the room is
// validated against the store, the message is durably recorded, and only
// then is a new_message event fanned out to the room's subscribers. The
// fan-out enqueues and returns; no subscriber delivery is awaited.
func (h *Hub) SubmitMessage(ctx context.Context, roomID int64, sender, content string) (*Message, error) {
	if sender == "" || content == "" {
		return nil, coreError(ErrCodeBadRequest, "sender and content are required")
	}

	if _, err := h.store.GetRoomByID(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			return nil, store.ErrRoomNotFound
		}
		return nil, err
	}

	stored, err := h.store.AppendMessage(ctx, roomID, sender, content)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:        stored.ID,
		RoomID:    stored.RoomID,
		Sender:    stored.Sender,
		Content:   stored.Content,
		CreatedAt: stored.CreatedAt,
	}

	reached := h.broadcast.Publish(roomID, &Event{
		Kind:    EventNewMessage,
		RoomID:  roomID,
		Message: *msg,
	})
	h.log.Debug().
		Int64("room_id", roomID).
		Int64("message_id", msg.ID).
		Int("subscribers", reached).
		Msg("message broadcast")

	return msg, nil
}

// Members returns the usernames currently present in roomID.
func (h *Hub) Members(roomID int64) []string {
	return h.presence.Members(roomID)
}

// asCoreError maps any pipeline error to a protocol-visible CoreError.
func asCoreError(err error) *CoreError {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, store.ErrRoomNotFound) {
		return coreError(ErrCodeRoomNotFound, "room not found")
	}
	return coreError(ErrCodeInternal, "internal error")
}
