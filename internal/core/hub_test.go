package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akorchagin/roomchat-server/internal/store"
)

func startHub(t *testing.T) (*Hub, *memStore) {
	t.Helper()

	st := newMemStore()
	hub := NewHub(st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub, st
}

func TestHubJoinBroadcastAndDisconnect(t *testing.T) {
	hub, st := startHub(t)

	room, err := st.CreateRoom(context.Background(), "general")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	alice := NewClient("sid-a")
	bob := NewClient("sid-b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, RoomID: room.ID, Username: "alice"}
	mustEvent(t, alice.Events, EventUserJoined)

	bob.Commands <- &Command{Kind: CommandJoinRoom, RoomID: room.ID, Username: "bob"}

	// Bob sees his own join event; alice sees it too.
	joinEv := mustEvent(t, bob.Events, EventUserJoined)
	if joinEv.Username != "bob" || joinEv.RoomID != room.ID || joinEv.SID != "sid-b" {
		t.Fatalf("unexpected join event: %+v", joinEv)
	}

	members := hub.Members(room.ID)
	if len(members) != 2 || members[0] != "alice" || members[1] != "bob" {
		t.Fatalf("unexpected members: %v", members)
	}

	alice.Commands <- &Command{Kind: CommandSendMessage, RoomID: room.ID, Sender: "alice", Text: "hi"}

	for _, c := range []*Client{alice, bob} {
		msgEv := mustEvent(t, c.Events, EventNewMessage)
		if msgEv.Message.Sender != "alice" || msgEv.Message.Content != "hi" || msgEv.Message.RoomID != room.ID {
			t.Fatalf("unexpected message event: %+v", msgEv)
		}
		if msgEv.Message.ID == 0 {
			t.Fatalf("message broadcast before persistence assigned an id")
		}
	}

	// The broadcast message is retrievable from the store.
	stored, err := st.ListMessages(context.Background(), room.ID, 0, nil)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(stored) != 1 || stored[0].Content != "hi" {
		t.Fatalf("unexpected stored messages: %+v", stored)
	}

	// Bob disconnects; alice sees user_left and the member set shrinks.
	hub.UnregisterClient(bob)
	leftEv := mustEvent(t, alice.Events, EventUserLeft)
	if leftEv.Username != "bob" || leftEv.RoomID != room.ID {
		t.Fatalf("unexpected leave event: %+v", leftEv)
	}
	if got := hub.Members(room.ID); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("unexpected members after disconnect: %v", got)
	}

	// Last connection out removes the room from the registry entirely.
	hub.UnregisterClient(alice)
	if hub.presence.Tracked(room.ID) {
		t.Fatalf("room still tracked after last disconnect")
	}
}

func TestSubmitMessageUnknownRoom(t *testing.T) {
	hub, st := startHub(t)

	watcher := NewClient("sid-w")
	hub.RegisterClient(watcher)
	hub.Join(watcher, 9999, "watcher")
	mustEvent(t, watcher.Events, EventUserJoined)

	_, err := hub.SubmitMessage(context.Background(), 9999, "alice", "hello?")
	if !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if st.messageCount() != 0 {
		t.Fatalf("message persisted for nonexistent room")
	}
	noEvent(t, watcher.Events, 100*time.Millisecond)
}

func TestSubmitMessageRejectsEmptyFields(t *testing.T) {
	hub, st := startHub(t)

	room, err := st.CreateRoom(context.Background(), "general")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	for _, tc := range []struct{ sender, content string }{
		{"", "hello"},
		{"alice", ""},
	} {
		_, err := hub.SubmitMessage(context.Background(), room.ID, tc.sender, tc.content)
		var coreErr *CoreError
		if !errors.As(err, &coreErr) || coreErr.Code != ErrCodeBadRequest {
			t.Fatalf("expected bad_request for %+v, got %v", tc, err)
		}
	}
	if st.messageCount() != 0 {
		t.Fatalf("invalid message was persisted")
	}
}

func TestSendMessageCommandReportsErrorToSender(t *testing.T) {
	hub, _ := startHub(t)

	alice := NewClient("sid-a")
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandSendMessage, RoomID: 9999, Sender: "alice", Text: "hi"}

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomNotFound {
		t.Fatalf("expected room_not_found error, got %+v", ev)
	}
}

func TestDisconnectWithoutJoinIsSilent(t *testing.T) {
	hub, _ := startHub(t)

	alice := NewClient("sid-a")
	hub.RegisterClient(alice)

	// Never joined: no user_left, and a second disconnect is a no-op too.
	hub.UnregisterClient(alice)
	hub.UnregisterClient(alice)
	noEvent(t, alice.Events, 100*time.Millisecond)
}

func TestRejoinMovesPresence(t *testing.T) {
	hub, st := startHub(t)

	room1, _ := st.CreateRoom(context.Background(), "general")
	room2, _ := st.CreateRoom(context.Background(), "random")

	alice := NewClient("sid-a")
	observer := NewClient("sid-o")
	hub.RegisterClient(alice)
	hub.RegisterClient(observer)

	hub.Join(observer, room1.ID, "observer")
	hub.Join(alice, room1.ID, "alice")
	mustEvent(t, alice.Events, EventUserJoined)

	// Joining another room implicitly leaves the first one.
	hub.Join(alice, room2.ID, "alice")

	leftEv := mustEvent(t, observer.Events, EventUserLeft)
	if leftEv.Username != "alice" || leftEv.RoomID != room1.ID {
		t.Fatalf("unexpected leave event: %+v", leftEv)
	}

	if got := hub.Members(room1.ID); len(got) != 1 || got[0] != "observer" {
		t.Fatalf("stale presence in old room: %v", got)
	}
	if got := hub.Members(room2.ID); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("missing presence in new room: %v", got)
	}
}

func TestJoinDefaultsUsernameFromSessionID(t *testing.T) {
	hub, _ := startHub(t)

	client := NewClient("abcdef-123")
	hub.RegisterClient(client)
	hub.Join(client, 7, "")

	ev := mustEvent(t, client.Events, EventUserJoined)
	if ev.Username != "user_abcde" {
		t.Fatalf("unexpected default username: %q", ev.Username)
	}
}
