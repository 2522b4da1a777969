package core

// Conn is one client connection as seen by the core layer. The
// transport owns framing: one ReadLine result is exactly one logical
// client message, and WriteLine emits exactly one newline-terminated
// line. WriteLine must be safe for concurrent use, since broadcasts
// from several senders may target the same connection at once.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(text string) error
	Close() error
	RemoteAddr() string
}

// History is the append-only log collaborator. Appends are best
// effort: a failure is reported to the caller for logging but never
// interrupts the chat path.
type History interface {
	AppendGlobal(line string) error
	AppendRoom(room, line string) error
}
