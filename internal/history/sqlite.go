package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	room TEXT NOT NULL DEFAULT '',
	line TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_history_room ON history(room, id);
`

// SQLiteLog persists the history streams in a SQLite database. The
// global stream is stored as room = ''.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog opens (creating if needed) the database at dbPath.
func NewSQLiteLog(dbPath string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteLog{db: db}, nil
}

// AppendGlobal appends one line to the global stream.
func (l *SQLiteLog) AppendGlobal(line string) error {
	return l.insert("", line)
}

// AppendRoom appends one line to the room's stream.
func (l *SQLiteLog) AppendRoom(room, line string) error {
	return l.insert(room, line)
}

func (l *SQLiteLog) insert(room, line string) error {
	query := `INSERT INTO history (room, line, created_at) VALUES (?, ?, ?)`
	if _, err := l.db.Exec(query, room, line, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Recent returns up to limit lines of a stream, oldest first. Pass
// room = "" for the global stream.
func (l *SQLiteLog) Recent(room string, limit int) ([]string, error) {
	query := `
		SELECT line FROM (
			SELECT id, line FROM history WHERE room = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`
	rows, err := l.db.Query(query, room, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Close closes the database connection.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
