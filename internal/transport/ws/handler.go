// Package ws serves the relay's line protocol over WebSocket: one
// text frame carries exactly one logical line in each direction.
package ws

import (
	"context"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/concurmeet/concurmeet/internal/core"
)

// Handler upgrades HTTP connections and bridges them to the session
// lifecycle.
type Handler struct {
	lifecycle *core.Lifecycle
	log       *zerolog.Logger
}

// NewHandler builds a new WebSocket handler.
func NewHandler(lifecycle *core.Lifecycle, logger *zerolog.Logger) stdhttp.Handler {
	return &Handler{lifecycle: lifecycle, log: logger}
}

func (h *Handler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("ws connection accepted")

	h.lifecycle.HandleConn(&wsConn{
		ctx:    r.Context(),
		conn:   conn,
		remote: r.RemoteAddr,
	})
}

// wsConn adapts a websocket connection to core.Conn.
type wsConn struct {
	ctx    context.Context
	conn   *websocket.Conn
	remote string
}

func (c *wsConn) ReadLine() (string, error) {
	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (c *wsConn) WriteLine(text string) error {
	return c.conn.Write(c.ctx, websocket.MessageText, []byte(text))
}

func (c *wsConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "closing")
}

func (c *wsConn) RemoteAddr() string {
	return c.remote
}
