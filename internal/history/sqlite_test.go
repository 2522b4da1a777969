package history

import (
	"path/filepath"
	"testing"
)

func newTestSQLiteLog(t *testing.T) *SQLiteLog {
	t.Helper()

	log, err := NewSQLiteLog(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open sqlite log: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestSQLiteLogStreamsAreSeparate(t *testing.T) {
	log := newTestSQLiteLog(t)

	if err := log.AppendGlobal("alice connected"); err != nil {
		t.Fatal(err)
	}
	if err := log.AppendRoom("lobby", "alice: hi"); err != nil {
		t.Fatal(err)
	}
	if err := log.AppendRoom("den", "bob: yo"); err != nil {
		t.Fatal(err)
	}

	lobby, err := log.Recent("lobby", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(lobby) != 1 || lobby[0] != "alice: hi" {
		t.Fatalf("unexpected lobby stream: %v", lobby)
	}

	global, err := log.Recent("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(global) != 1 || global[0] != "alice connected" {
		t.Fatalf("unexpected global stream: %v", global)
	}
}

func TestSQLiteLogRecentOrderAndLimit(t *testing.T) {
	log := newTestSQLiteLog(t)

	for _, line := range []string{"one", "two", "three"} {
		if err := log.AppendRoom("lobby", line); err != nil {
			t.Fatal(err)
		}
	}

	lines, err := log.Recent("lobby", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "two" || lines[1] != "three" {
		t.Fatalf("unexpected recent lines: %v", lines)
	}
}
