package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/akorchagin/roomchat-server/internal/proto"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "tester", "username to join with")
	room := flag.Int64("room", 1, "room id")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	send := func(frameType string, data any) {
		payload, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			log.Fatalf("marshal %s: %v", frameType, marshalErr)
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); writeErr != nil {
			log.Fatalf("write %s: %v", frameType, writeErr)
		}
	}

	send(proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: *room, Username: *user})
	send(proto.InboundTypeSendMessage, proto.SendMessageData{RoomID: *room, Sender: *user, Message: *text})

	// Expect the join event and our own message echoed back.
	sawMessage := false
	for !sawMessage {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			log.Fatalf("read: %v", err)
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			log.Fatalf("server error: %s (%s)", outbound.Error.Error, outbound.Error.Code)
		}

		if outbound.Event == proto.EventNameNewMessage {
			var msg proto.EventNewMessage
			if err := json.Unmarshal(outbound.Data, &msg); err != nil {
				log.Fatalf("unmarshal new_message: %v", err)
			}
			if msg.Content != *text {
				log.Fatalf("unexpected message content: %q", msg.Content)
			}
			fmt.Printf("ok: message %d delivered at %s\n", msg.ID, msg.Timestamp)
			sawMessage = true
		}
	}
}
