package core

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeConn is a scriptable in-memory Conn. Inbound lines are pushed
// through a channel; outbound lines are captured for assertions.
type fakeConn struct {
	in        chan string
	closeOnce sync.Once

	mu         sync.Mutex
	sent       []string
	failWrites bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan string, 16)}
}

func (c *fakeConn) ReadLine() (string, error) {
	line, ok := <-c.in
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (c *fakeConn) WriteLine(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("write failed")
	}
	c.sent = append(c.sent, text)
	return nil
}

func (c *fakeConn) Close() error {
	c.disconnect()
	return nil
}

func (c *fakeConn) RemoteAddr() string { return "fake" }

func (c *fakeConn) push(line string) { c.in <- line }

// disconnect simulates the peer closing the stream: the next ReadLine
// reports io.EOF.
func (c *fakeConn) disconnect() {
	c.closeOnce.Do(func() { close(c.in) })
}

func (c *fakeConn) sentLines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) received(substr string) bool {
	for _, line := range c.sentLines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// mustReceive waits for a line containing substr to arrive at c.
func mustReceive(t *testing.T, c *fakeConn, substr string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.received(substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected line containing %q, got %v", substr, c.sentLines())
}

// recordingHistory captures appended lines per stream.
type recordingHistory struct {
	mu     sync.Mutex
	global []string
	rooms  map[string][]string
}

func newRecordingHistory() *recordingHistory {
	return &recordingHistory{rooms: make(map[string][]string)}
}

func (h *recordingHistory) AppendGlobal(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.global = append(h.global, line)
	return nil
}

func (h *recordingHistory) AppendRoom(room, line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms[room] = append(h.rooms[room], line)
	return nil
}

func (h *recordingHistory) roomLines(room string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.rooms[room]))
	copy(out, h.rooms[room])
	return out
}

// testKit bundles a directory, engine, processor and lifecycle wired
// the way the app wires them.
type testKit struct {
	dir       *Directory
	engine    *Engine
	proc      *Processor
	lifecycle *Lifecycle
	history   *recordingHistory
}

func newTestKit() *testKit {
	logger := zerolog.Nop()
	dir := NewDirectory()
	history := newRecordingHistory()
	engine := NewEngine(dir, history, &logger)
	proc := NewProcessor(dir, engine)
	return &testKit{
		dir:       dir,
		engine:    engine,
		proc:      proc,
		lifecycle: NewLifecycle(dir, engine, proc, history, &logger),
		history:   history,
	}
}

// register adds a session directly, bypassing the lifecycle.
func (k *testKit) register(t *testing.T, id, username string) *fakeConn {
	t.Helper()
	conn := newFakeConn()
	if err := k.dir.Register(id, username, conn); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
	return conn
}
