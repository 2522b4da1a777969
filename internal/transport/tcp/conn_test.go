package tcp

import (
	"errors"
	"io"
	"net"
	"testing"
)

func TestLineConnFramesOneMessagePerRead(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	lc := newLineConn(server)
	defer lc.Close()

	go func() {
		// One underlying write carrying two logical lines, LF and CRLF.
		client.Write([]byte("first\r\nsecond\nthi"))
		client.Write([]byte("rd\n"))
		client.Close()
	}()

	for i, want := range []string{"first", "second", "third"} {
		line, err := lc.ReadLine()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if line != want {
			t.Fatalf("read %d: got %q, want %q", i, line, want)
		}
	}

	if _, err := lc.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestLineConnUnterminatedFinalLine(t *testing.T) {
	client, server := net.Pipe()

	lc := newLineConn(server)
	defer lc.Close()

	go func() {
		client.Write([]byte("no newline"))
		client.Close()
	}()

	line, err := lc.ReadLine()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if line != "no newline" {
		t.Fatalf("got %q", line)
	}
	if _, err := lc.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestLineConnWriteLineAppendsNewline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	lc := newLineConn(server)
	defer lc.Close()

	go lc.WriteLine("hello")

	buf := make([]byte, 16)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(buf[:n]); got != "hello\n" {
		t.Fatalf("got %q", got)
	}
}
