package core

import "github.com/rs/zerolog"

// Engine fans a message out to every current member of a room. The
// membership snapshot is taken under the directory lock; delivery
// happens after the lock is released, so one slow socket never
// serializes the rest of the room.
type Engine struct {
	dir     *Directory
	history History
	log     *zerolog.Logger
}

// NewEngine constructs a broadcast engine over the given directory.
func NewEngine(dir *Directory, history History, logger *zerolog.Logger) *Engine {
	return &Engine{dir: dir, history: history, log: logger}
}

// Broadcast delivers text to every member of room except excludeID
// (pass "" to exclude nobody) and appends it to the room and global
// histories. The recipient set is the membership at the instant the
// snapshot was taken: a client joining afterwards does not get the
// message, and one that left may still receive it. A failed delivery
// is logged and skipped; the failing recipient is reaped by its own
// session's disconnect path, not by the broadcaster.
func (e *Engine) Broadcast(room, text, excludeID string) {
	recipients := e.dir.recipients(room, excludeID)

	for _, r := range recipients {
		if err := r.conn.WriteLine(text); err != nil {
			e.log.Warn().Err(err).
				Str("session_id", r.id).
				Str("room", room).
				Msg("broadcast delivery failed")
		}
	}

	if err := e.history.AppendRoom(room, text); err != nil {
		e.log.Warn().Err(err).Str("room", room).Msg("append room history")
	}
	if err := e.history.AppendGlobal(text); err != nil {
		e.log.Warn().Err(err).Msg("append global history")
	}
}
