package core

import "testing"

func TestBroadcastReachesCurrentSubscribersOnly(t *testing.T) {
	b := NewBroadcaster()

	a := NewClient("sid-a")
	c := NewClient("sid-c")
	b.Subscribe(a, 1)
	b.Subscribe(c, 2)

	if got := b.Publish(1, &Event{Kind: EventUserJoined, RoomID: 1}); got != 1 {
		t.Fatalf("expected 1 delivery, got %d", got)
	}

	select {
	case ev := <-a.Events:
		if ev.RoomID != 1 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("subscriber did not receive event")
	}

	select {
	case ev := <-c.Events:
		t.Fatalf("client in another room received event: %+v", ev)
	default:
	}
}

func TestBroadcastUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroadcaster()

	a := NewClient("sid-a")
	b.Subscribe(a, 1)
	b.Unsubscribe(a, 1)

	if got := b.Publish(1, &Event{Kind: EventNewMessage, RoomID: 1}); got != 0 {
		t.Fatalf("expected 0 deliveries, got %d", got)
	}
}

func TestBroadcastSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	b := NewBroadcaster()

	slow := NewClient("sid-slow")
	fast := NewClient("sid-fast")
	b.Subscribe(slow, 1)
	b.Subscribe(fast, 1)

	// Saturate the slow client's queue.
	for i := 0; i < cap(slow.Events); i++ {
		slow.Events <- &Event{Kind: EventNewMessage}
	}

	done := make(chan int, 1)
	go func() {
		done <- b.Publish(1, &Event{Kind: EventNewMessage, RoomID: 1})
	}()

	delivered := <-done
	if delivered != 1 {
		t.Fatalf("expected delivery to the fast subscriber only, got %d", delivered)
	}

	select {
	case ev := <-fast.Events:
		if ev.RoomID != 1 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("fast subscriber missed the event")
	}
}
