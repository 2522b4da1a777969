package core

// session is one connected client's identity and current room. The
// Directory exclusively owns every session record; callers hold only
// the session id and re-read mutable state through the Directory.
type session struct {
	id       string
	username string
	room     string // "" means no room
	conn     Conn
}

// Member is a read-only snapshot of one room member, safe to use
// after the directory lock has been released.
type Member struct {
	ID       string
	Username string
}

// RoomInfo is a read-only snapshot of one room's name and live size.
type RoomInfo struct {
	Name string
	Size int
}

// recipient pairs a session id with its connection for fan-out
// delivery outside the directory lock.
type recipient struct {
	id       string
	username string
	conn     Conn
}
