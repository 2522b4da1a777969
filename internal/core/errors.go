package core

import "errors"

// Domain errors. None of these is fatal: directory callers translate
// them into replies for the acting client.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrDuplicateSession = errors.New("session already registered")
	ErrNotRegistered    = errors.New("session not registered")
)
