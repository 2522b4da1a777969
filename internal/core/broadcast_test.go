package core

import (
	"fmt"
	"sync"
	"testing"
)

func TestBroadcastExcludesSender(t *testing.T) {
	kit := newTestKit()

	a := kit.register(t, "a", "alice")
	b := kit.register(t, "b", "bob")
	c := kit.register(t, "c", "carol")
	for _, id := range []string{"a", "b", "c"} {
		if err := kit.dir.JoinRoom(id, "general", true); err != nil {
			t.Fatal(err)
		}
	}

	kit.engine.Broadcast("general", "hi", "a")

	if a.received("hi") {
		t.Fatal("sender should not receive its own message")
	}
	if !b.received("hi") || !c.received("hi") {
		t.Fatalf("recipients missed the message: b=%v c=%v", b.sentLines(), c.sentLines())
	}
}

func TestBroadcastDeliveryFailureDoesNotAbortOthers(t *testing.T) {
	kit := newTestKit()

	kit.register(t, "a", "alice")
	b := kit.register(t, "b", "bob")
	c := kit.register(t, "c", "carol")
	b.failWrites = true
	for _, id := range []string{"a", "b", "c"} {
		if err := kit.dir.JoinRoom(id, "general", true); err != nil {
			t.Fatal(err)
		}
	}

	kit.engine.Broadcast("general", "hi", "a")

	if !c.received("hi") {
		t.Fatalf("healthy recipient missed the message: %v", c.sentLines())
	}
}

func TestBroadcastAppendsHistory(t *testing.T) {
	kit := newTestKit()

	kit.register(t, "a", "alice")
	if err := kit.dir.JoinRoom("a", "general", true); err != nil {
		t.Fatal(err)
	}

	kit.engine.Broadcast("general", "alice: hi", "")

	if lines := kit.history.roomLines("general"); len(lines) != 1 || lines[0] != "alice: hi" {
		t.Fatalf("unexpected room history: %v", lines)
	}
	kit.history.mu.Lock()
	global := len(kit.history.global)
	kit.history.mu.Unlock()
	if global != 1 {
		t.Fatalf("expected one global history line, got %d", global)
	}
}

func TestBroadcastToUnknownRoomIsHarmless(t *testing.T) {
	kit := newTestKit()
	kit.engine.Broadcast("ghost", "hello?", "")
}

func TestUnregisteredSessionNeverReceives(t *testing.T) {
	kit := newTestKit()

	kit.register(t, "a", "alice")
	b := kit.register(t, "b", "bob")
	for _, id := range []string{"a", "b"} {
		if err := kit.dir.JoinRoom(id, "general", true); err != nil {
			t.Fatal(err)
		}
	}

	kit.dir.Unregister("b")
	kit.engine.Broadcast("general", "hi", "a")

	if len(b.sentLines()) != 0 {
		t.Fatalf("unregistered session received lines: %v", b.sentLines())
	}
}

// Broadcasts racing with disconnects must never deliver to a session
// whose Unregister already returned, and must never panic on a
// vanished member.
func TestBroadcastConcurrentWithUnregister(t *testing.T) {
	kit := newTestKit()

	kit.register(t, "sender", "sam")
	if err := kit.dir.JoinRoom("sender", "general", true); err != nil {
		t.Fatal(err)
	}

	const peers = 16
	conns := make([]*fakeConn, peers)
	for i := range peers {
		id := fmt.Sprintf("p%d", i)
		conns[i] = kit.register(t, id, "user"+id)
		if err := kit.dir.JoinRoom(id, "general", true); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			kit.engine.Broadcast("general", fmt.Sprintf("msg %d", i), "sender")
		}
	}()
	go func() {
		defer wg.Done()
		for i := range peers {
			_, _, _ = kit.dir.Unregister(fmt.Sprintf("p%d", i))
		}
	}()
	wg.Wait()

	kit.engine.Broadcast("general", "final", "sender")
	for i := range peers {
		if conns[i].received("final") {
			t.Fatalf("p%d received a broadcast after unregister returned", i)
		}
	}
}
