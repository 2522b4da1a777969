package tcp

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
)

// lineConn frames a raw TCP stream into logical messages: one
// ReadLine result is exactly one newline-terminated client line,
// regardless of how the bytes arrived. Each connection owns its own
// growable read buffer.
type lineConn struct {
	conn net.Conn
	r    *bufio.Reader

	// Replies and broadcasts from other sessions write concurrently.
	wmu sync.Mutex
}

func newLineConn(c net.Conn) *lineConn {
	return &lineConn{conn: c, r: bufio.NewReader(c)}
}

func (c *lineConn) ReadLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		// A final unterminated line is still one logical message.
		if len(line) > 0 && errors.Is(err, io.EOF) {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *lineConn) WriteLine(text string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write([]byte(text + "\n"))
	return err
}

func (c *lineConn) Close() error {
	return c.conn.Close()
}

func (c *lineConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
