// Package http exposes the relay's HTTP surface: a health check, a
// read-only rooms API over the directory, and the WebSocket upgrade
// endpoint.
package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/concurmeet/concurmeet/internal/config"
	"github.com/concurmeet/concurmeet/internal/core"
	"github.com/concurmeet/concurmeet/internal/transport/ws"
)

// NewServer builds the HTTP server with all routes registered.
func NewServer(dir *core.Directory, lifecycle *core.Lifecycle, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(ws.NewHandler(lifecycle, logger)))

	rooms := NewRoomsHandlers(dir, logger)
	api := router.Group("/api")
	api.GET("/rooms", rooms.ListRooms)
	api.GET("/rooms/:name/users", rooms.RoomUsers)

	return &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
