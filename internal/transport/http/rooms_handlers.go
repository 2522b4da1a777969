package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/concurmeet/concurmeet/internal/core"
)

// RoomsHandlers provides read-only HTTP views over the room directory.
type RoomsHandlers struct {
	dir *core.Directory
	log *zerolog.Logger
}

// NewRoomsHandlers creates a new rooms handlers instance.
func NewRoomsHandlers(dir *core.Directory, logger *zerolog.Logger) *RoomsHandlers {
	return &RoomsHandlers{dir: dir, log: logger}
}

// RoomResponse represents one room in the list response.
type RoomResponse struct {
	Name  string `json:"name"`
	Users int    `json:"users"`
}

// RoomUsersResponse represents a room's member list.
type RoomUsersResponse struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListRooms handles GET /api/rooms.
func (h *RoomsHandlers) ListRooms(c *gin.Context) {
	infos := h.dir.ListRooms()

	out := make([]RoomResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, RoomResponse{Name: info.Name, Users: info.Size})
	}
	c.JSON(http.StatusOK, out)
}

// RoomUsers handles GET /api/rooms/:name/users.
func (h *RoomsHandlers) RoomUsers(c *gin.Context) {
	name := c.Param("name")

	members, ok := h.dir.MembersOf(name)
	if !ok {
		h.log.Debug().Str("room", name).Msg("room users requested for unknown room")
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	users := make([]string, 0, len(members))
	for _, m := range members {
		users = append(users, m.Username)
	}
	c.JSON(http.StatusOK, RoomUsersResponse{Room: name, Users: users})
}
