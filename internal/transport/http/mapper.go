package http

import (
	"encoding/json"
	"time"

	"github.com/akorchagin/roomchat-server/internal/core"
	"github.com/akorchagin/roomchat-server/internal/proto"
)

// inboundToCommand maps a wire frame to a hub command. Malformed payloads
// (bad JSON, missing or non-numeric room id) come back as a proto.Error so
// the read loop can answer and keep going.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Error: "malformed join_room payload"}
		}
		if join.RoomID <= 0 {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Error: "room_id is required"}
		}
		return &core.Command{
			Kind:     core.CommandJoinRoom,
			RoomID:   join.RoomID,
			Username: join.Username,
		}, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Error: "malformed send_message payload"}
		}
		if msg.RoomID <= 0 {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Error: "room_id is required"}
		}
		return &core.Command{
			Kind:   core.CommandSendMessage,
			RoomID: msg.RoomID,
			Sender: msg.Sender,
			Text:   msg.Message,
		}, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Error: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventNewMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameNewMessage,
			Data: proto.EventNewMessage{
				ID:        event.Message.ID,
				RoomID:    event.Message.RoomID,
				Sender:    event.Message.Sender,
				Content:   event.Message.Content,
				Timestamp: event.Message.CreatedAt.Format(time.RFC3339),
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserJoined,
			Data: proto.EventUserJoined{
				SID:      event.SID,
				Username: event.Username,
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserLeft,
			Data: proto.EventUserLeft{
				SID:      event.SID,
				Username: event.Username,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Error: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Error: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
