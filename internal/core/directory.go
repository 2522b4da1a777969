package core

import (
	"sort"
	"sync"
)

// Directory is the authoritative mapping of sessions to rooms and
// rooms to member sets. Every read and write goes through one mutex:
// the session.room field and the room member sets describe the same
// fact twice, and splitting the lock would let another goroutine
// observe them disagreeing.
type Directory struct {
	mu       sync.Mutex
	sessions map[string]*session
	rooms    map[string]map[string]struct{}
}

// NewDirectory constructs an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		sessions: make(map[string]*session),
		rooms:    make(map[string]map[string]struct{}),
	}
}

// Register inserts a new session with no room. Returns
// ErrDuplicateSession if the id is already registered.
func (d *Directory) Register(id, username string, conn Conn) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.sessions[id]; exists {
		return ErrDuplicateSession
	}
	d.sessions[id] = &session{id: id, username: username, conn: conn}
	return nil
}

// CreateRoom inserts an empty room if absent. Idempotent, never fails.
func (d *Directory) CreateRoom(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.createRoomLocked(name)
}

func (d *Directory) createRoomLocked(name string) {
	if _, exists := d.rooms[name]; !exists {
		d.rooms[name] = make(map[string]struct{})
	}
}

// JoinRoom moves the session into the named room, leaving its current
// room if it has one. The remove-then-insert is a single atomic
// transition: no other goroutine can observe the session in neither
// room or in both. With createIfMissing false a missing room returns
// ErrRoomNotFound and leaves all state unchanged.
func (d *Directory) JoinRoom(id, name string, createIfMissing bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[id]
	if !ok {
		return ErrNotRegistered
	}
	if createIfMissing {
		d.createRoomLocked(name)
	} else if _, exists := d.rooms[name]; !exists {
		return ErrRoomNotFound
	}

	if s.room != "" {
		d.removeMemberLocked(s)
	}
	d.rooms[name][id] = struct{}{}
	s.room = name
	return nil
}

// LeaveRoom removes the session from its current room and reports
// which room was left. No-op with left=false if it had no room.
func (d *Directory) LeaveRoom(id string) (room string, left bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[id]
	if !ok || s.room == "" {
		return "", false
	}
	room = s.room
	d.removeMemberLocked(s)
	return room, true
}

// Unregister removes the session from its room and deletes it
// entirely, in one transition. A second call for the same id is a
// no-op returning ok=false. After Unregister returns, no broadcast
// snapshot taken afterwards will include the id.
func (d *Directory) Unregister(id string) (username, room string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, exists := d.sessions[id]
	if !exists {
		return "", "", false
	}
	username, room = s.username, s.room
	if s.room != "" {
		d.removeMemberLocked(s)
	}
	delete(d.sessions, id)
	return username, room, true
}

// removeMemberLocked clears both halves of the membership fact. Empty
// rooms are kept: room existence is monotonic.
func (d *Directory) removeMemberLocked(s *session) {
	if members, exists := d.rooms[s.room]; exists {
		delete(members, s.id)
	}
	s.room = ""
}

// RoomSize reports the live member count of a room, 0 if absent.
func (d *Directory) RoomSize(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rooms[name])
}

// ListRooms returns a snapshot of every room and its size, sorted by
// name for stable presentation.
func (d *Directory) ListRooms() []RoomInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	infos := make([]RoomInfo, 0, len(d.rooms))
	for name, members := range d.rooms {
		infos = append(infos, RoomInfo{Name: name, Size: len(members)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// MembersOf returns a snapshot of a room's members. The second result
// is false if the room does not exist.
func (d *Directory) MembersOf(name string) ([]Member, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, exists := d.rooms[name]
	if !exists {
		return nil, false
	}
	out := make([]Member, 0, len(members))
	for id := range members {
		out = append(out, Member{ID: id, Username: d.sessions[id].username})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, true
}

// CurrentRoomOf reports the session's room, "" if roomless or unknown.
func (d *Directory) CurrentRoomOf(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.sessions[id]; ok {
		return s.room
	}
	return ""
}

// UsernameOf reports the session's username, "" if unknown.
func (d *Directory) UsernameOf(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.sessions[id]; ok {
		return s.username
	}
	return ""
}

// recipients snapshots the connections of a room's members, minus an
// optional excluded sender. The snapshot is consistent: it is exactly
// the membership at this instant, and the caller delivers to it after
// the lock is gone.
func (d *Directory) recipients(room, excludeID string) []recipient {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, exists := d.rooms[room]
	if !exists {
		return nil
	}
	out := make([]recipient, 0, len(members))
	for id := range members {
		if id == excludeID {
			continue
		}
		s := d.sessions[id]
		out = append(out, recipient{id: s.id, username: s.username, conn: s.conn})
	}
	return out
}
