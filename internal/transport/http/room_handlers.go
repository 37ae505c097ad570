package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akorchagin/roomchat-server/internal/config"
	"github.com/akorchagin/roomchat-server/internal/core"
	"github.com/akorchagin/roomchat-server/internal/store"
)

// RoomHandlers provides HTTP handlers for room, message and presence endpoints.
type RoomHandlers struct {
	store store.Store
	hub   *core.Hub
	cfg   *config.Config
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.Store, hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		hub:   hub,
		cfg:   cfg,
		log:   logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// CreateMessageRequest represents the create message request body.
type CreateMessageRequest struct {
	Sender  string `json:"sender" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID        int64  `json:"id"`
	RoomID    int64  `json:"room_id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// UsersResponse represents the live member listing of a room.
type UsersResponse struct {
	RoomID    int64    `json:"room_id"`
	UserCount int      `json:"user_count"`
	Users     []string `json:"users"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoom handles room creation.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "room with this name already exists"})
			return
		}
		h.log.Error().Err(err).Str("room_name", req.Name).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room_name", room.Name).Int64("room_id", room.ID).Msg("room created")
	c.JSON(http.StatusCreated, roomResponse(room))
}

// ListRooms handles listing all rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, roomResponse(room))
	}
	c.JSON(http.StatusOK, response)
}

// ListMessages handles fetching a room's message history.
// GET /api/rooms/:id/messages
func (h *RoomHandlers) ListMessages(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if _, err := h.store.GetRoomByID(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Int64("room_id", roomID).Msg("failed to look up room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	limit := h.cfg.HistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	var beforeID *int64
	if raw := c.Query("before_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			beforeID = &parsed
		}
	}

	messages, err := h.store.ListMessages(c.Request.Context(), roomID, limit, beforeID)
	if err != nil {
		h.log.Error().Err(err).Int64("room_id", roomID).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:        msg.ID,
			RoomID:    msg.RoomID,
			Sender:    msg.Sender,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, response)
}

// CreateMessage handles message submission via REST. The message runs through
// the same persist-then-broadcast pipeline as the live channel, so connected
// room subscribers see it as a new_message event.
// POST /api/rooms/:id/messages
func (h *RoomHandlers) CreateMessage(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing sender or content"})
		return
	}

	msg, err := h.hub.SubmitMessage(c.Request.Context(), roomID, req.Sender, req.Content)
	if err != nil {
		var coreErr *core.CoreError
		switch {
		case errors.Is(err, store.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		case errors.As(err, &coreErr) && coreErr.Code == core.ErrCodeBadRequest:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: coreErr.Message})
		default:
			h.log.Error().Err(err).Int64("room_id", roomID).Msg("failed to submit message")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		ID:        msg.ID,
		RoomID:    msg.RoomID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Timestamp: msg.CreatedAt.Format(time.RFC3339),
	})
}

// ListUsers handles the live member listing of a room, served from the
// presence registry. A room nobody is connected to reads as empty.
// GET /api/rooms/:id/users
func (h *RoomHandlers) ListUsers(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	users := h.hub.Members(roomID)
	c.JSON(http.StatusOK, UsersResponse{
		RoomID:    roomID,
		UserCount: len(users),
		Users:     users,
	})
}

func roomIDParam(c *gin.Context) (int64, bool) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || roomID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return 0, false
	}
	return roomID, true
}

func roomResponse(room *store.Room) RoomResponse {
	return RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		CreatedAt: room.CreatedAt.Format(time.RFC3339),
	}
}
