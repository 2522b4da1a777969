package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileLog appends timestamped lines to global.log and one
// room-<name>.log per room under a directory. One mutex guards all
// appends; it is never held while any other lock is taken.
type FileLog struct {
	mu    sync.Mutex
	dir   string
	files map[string]*os.File
}

// NewFileLog creates the directory if needed and returns a file log.
func NewFileLog(dir string) (*FileLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &FileLog{dir: dir, files: make(map[string]*os.File)}, nil
}

// AppendGlobal appends one line to the global stream.
func (l *FileLog) AppendGlobal(line string) error {
	return l.append("global.log", line)
}

// AppendRoom appends one line to the room's stream.
func (l *FileLog) AppendRoom(room, line string) error {
	return l.append("room-"+sanitize(room)+".log", line)
}

func (l *FileLog) append(name, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.files[name]
	if !ok {
		var err error
		f, err = os.OpenFile(filepath.Join(l.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		l.files[name] = f
	}

	if _, err := fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), line); err != nil {
		return fmt.Errorf("append %s: %w", name, err)
	}
	return nil
}

// Close closes every open log file.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for name, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(l.files, name)
	}
	return firstErr
}

// sanitize keeps room-derived file names inside the history
// directory.
func sanitize(room string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, room)
}
