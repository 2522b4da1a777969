// Package history persists the relay's global and per-room message
// streams. Appends are best effort: the chat path logs a failure and
// moves on. The package holds its own locking, independent of the
// room directory's.
package history

// NopLog discards every append. Used when history is disabled and in
// tests.
type NopLog struct{}

func (NopLog) AppendGlobal(string) error { return nil }

func (NopLog) AppendRoom(string, string) error { return nil }

func (NopLog) Close() error { return nil }
