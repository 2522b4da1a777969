package core

import (
	"errors"
	"fmt"
	"strings"
)

// CommandSummary lists every command the processor understands. It is
// shown on connect and on unrecognized input.
const CommandSummary = "/create <room>, /join <room>, /leave, /listrooms, /users"

// Processor turns one inbound line from a registered session into
// directory calls, broadcasts, and a response for the actor. The
// returned reply may span several lines; an empty reply means nothing
// is written back.
type Processor struct {
	dir    *Directory
	engine *Engine
}

// NewProcessor constructs a command processor.
func NewProcessor(dir *Directory, engine *Engine) *Processor {
	return &Processor{dir: dir, engine: engine}
}

// Process handles one line on behalf of the session id.
func (p *Processor) Process(id, line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	if strings.HasPrefix(line, "/") {
		return p.command(id, line)
	}
	return p.chat(id, line)
}

func (p *Processor) command(id, line string) string {
	tokens := strings.Fields(line)

	switch tokens[0] {
	case "/create":
		if len(tokens) < 2 {
			return "Usage: /create <room>"
		}
		return p.join(id, tokens[1], true)
	case "/join":
		if len(tokens) < 2 {
			return "Usage: /join <room>"
		}
		return p.join(id, tokens[1], false)
	case "/leave":
		return p.leave(id)
	case "/listrooms":
		return p.listRooms()
	case "/users":
		return p.users(id)
	default:
		return "Unknown command. Available commands: " + CommandSummary
	}
}

func (p *Processor) join(id, room string, create bool) string {
	if err := p.dir.JoinRoom(id, room, create); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return fmt.Sprintf("Room not found: %s", room)
		}
		return err.Error()
	}

	username := p.dir.UsernameOf(id)
	size := p.dir.RoomSize(room)
	p.engine.Broadcast(room, fmt.Sprintf("%s joined the chat (%d online)", username, size), id)

	if create {
		return fmt.Sprintf("You have created and joined room: %s", room)
	}
	return fmt.Sprintf("You have joined room: %s", room)
}

func (p *Processor) leave(id string) string {
	room, left := p.dir.LeaveRoom(id)
	if !left {
		return "You are not in a room."
	}

	username := p.dir.UsernameOf(id)
	size := p.dir.RoomSize(room)
	p.engine.Broadcast(room, fmt.Sprintf("%s left the chat (%d online)", username, size), id)

	return fmt.Sprintf("You have left room: %s", room)
}

func (p *Processor) listRooms() string {
	rooms := p.dir.ListRooms()
	if len(rooms) == 0 {
		return "No rooms available. Use /create <room> to make one."
	}

	lines := make([]string, 0, len(rooms))
	for _, r := range rooms {
		lines = append(lines, fmt.Sprintf("%s (%d users)", r.Name, r.Size))
	}
	return strings.Join(lines, "\n")
}

func (p *Processor) users(id string) string {
	room := p.dir.CurrentRoomOf(id)
	if room == "" {
		return "You are not in a room. Use /join <room> or /create <room>."
	}

	members, _ := p.dir.MembersOf(room)
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Username)
	}
	return fmt.Sprintf("Users in %s: %s", room, strings.Join(names, ", "))
}

// chat relays a plain message to the actor's room. Roomless messages
// are dropped, never queued.
func (p *Processor) chat(id, text string) string {
	room := p.dir.CurrentRoomOf(id)
	if room == "" {
		return "You are not in a room. Use /join <room> or /create <room> first."
	}

	username := p.dir.UsernameOf(id)
	p.engine.Broadcast(room, fmt.Sprintf("%s: %s", username, text), id)
	return ""
}
