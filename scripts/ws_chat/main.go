package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/akorchagin/roomchat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "", "username (empty lets the server pick one)")
	room := flag.Int64("room", 1, "room id to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(frameType string, data any) {
		payload, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			log.Printf("marshal %s: %v", frameType, marshalErr)
			return
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: *room, Username: *user})

	fmt.Printf("Connected to %s in room %d\n", *addr, *room)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	sender := *user
	if sender == "" {
		sender = "cli-user"
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		send(proto.InboundTypeSendMessage, proto.SendMessageData{
			RoomID:  *room,
			Sender:  sender,
			Message: text,
		})
		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			fmt.Printf("! error: %s\n", outbound.Error.Error)
			continue
		}

		switch outbound.Event {
		case proto.EventNameNewMessage:
			var msg proto.EventNewMessage
			if err := json.Unmarshal(outbound.Data, &msg); err == nil {
				fmt.Printf("[%s] %s: %s\n", msg.Timestamp, msg.Sender, msg.Content)
			}
		case proto.EventNameUserJoined:
			var joined proto.EventUserJoined
			if err := json.Unmarshal(outbound.Data, &joined); err == nil {
				fmt.Printf("* %s joined\n", joined.Username)
			}
		case proto.EventNameUserLeft:
			var left proto.EventUserLeft
			if err := json.Unmarshal(outbound.Data, &left); err == nil {
				fmt.Printf("* %s left\n", left.Username)
			}
		}
	}
}
