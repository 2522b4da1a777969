package core

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Lifecycle drives one connection from registration through the
// message loop to teardown. Transports call HandleConn once per
// accepted connection, each on its own goroutine.
type Lifecycle struct {
	dir     *Directory
	engine  *Engine
	proc    *Processor
	history History
	log     *zerolog.Logger
}

// NewLifecycle constructs the per-connection session driver.
func NewLifecycle(dir *Directory, engine *Engine, proc *Processor, history History, logger *zerolog.Logger) *Lifecycle {
	return &Lifecycle{dir: dir, engine: engine, proc: proc, history: history, log: logger}
}

// HandleConn runs the session state machine: the first line is the
// username, then lines are dispatched to the processor until the
// transport reports end of stream or a read error. Teardown runs
// exactly once regardless of which condition ended the loop.
func (l *Lifecycle) HandleConn(conn Conn) {
	defer conn.Close()

	first, err := conn.ReadLine()
	if err != nil {
		l.log.Debug().Err(err).Str("remote", conn.RemoteAddr()).Msg("connection closed before registration")
		return
	}
	// Empty usernames are accepted as-is.
	username := strings.TrimSpace(first)

	id := uuid.NewString()
	if err := l.dir.Register(id, username, conn); err != nil {
		l.log.Error().Err(err).Str("session_id", id).Msg("register session")
		return
	}
	defer l.teardown(id)

	l.log.Info().
		Str("session_id", id).
		Str("username", username).
		Str("remote", conn.RemoteAddr()).
		Msg("session registered")

	if err := conn.WriteLine(fmt.Sprintf("Welcome, %s!", username)); err != nil {
		return
	}
	if err := conn.WriteLine("Commands: " + CommandSummary); err != nil {
		return
	}

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.log.Debug().Err(err).Str("session_id", id).Msg("read line")
			}
			return
		}
		if reply := l.proc.Process(id, line); reply != "" {
			if err := conn.WriteLine(reply); err != nil {
				l.log.Debug().Err(err).Str("session_id", id).Msg("write reply")
				return
			}
		}
	}
}

// teardown removes the session and tells its former room. The
// departure notice excludes nobody: the departer is already gone from
// the member set by the time the snapshot is taken.
func (l *Lifecycle) teardown(id string) {
	username, room, ok := l.dir.Unregister(id)
	if !ok {
		return
	}

	if room != "" {
		size := l.dir.RoomSize(room)
		l.engine.Broadcast(room, fmt.Sprintf("%s left the chat (%d online)", username, size), "")
	}

	if err := l.history.AppendGlobal(fmt.Sprintf("%s disconnected", username)); err != nil {
		l.log.Warn().Err(err).Msg("append global history")
	}

	l.log.Info().Str("session_id", id).Str("username", username).Msg("session closed")
}
