package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akorchagin/roomchat-server/internal/config"
	"github.com/akorchagin/roomchat-server/internal/core"
	"github.com/akorchagin/roomchat-server/internal/store"
)

// NewServer builds the HTTP server: REST API for rooms and messages plus the
// websocket push channel.
func NewServer(hub *core.Hub, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(st, hub, cfg, logger)
	api := router.Group("/api")
	{
		api.POST("/rooms", rooms.CreateRoom)
		api.GET("/rooms", rooms.ListRooms)
		api.GET("/rooms/:id/messages", rooms.ListMessages)
		api.POST("/rooms/:id/messages", rooms.CreateMessage)
		api.GET("/rooms/:id/users", rooms.ListUsers)
	}

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
