// Interactive line client for the relay's TCP transport.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
)

func main() {
	if err := run(); err != nil {
		log.Printf("client: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "localhost:8000", "server address")
	name := flag.String("name", "", "username (prompted if empty)")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s\n", *addr)

	username := *name
	if username == "" {
		fmt.Print("Username: ")
		stdin := bufio.NewScanner(os.Stdin)
		if !stdin.Scan() {
			return stdin.Err()
		}
		username = stdin.Text()
	}
	if _, err := fmt.Fprintf(conn, "%s\n", username); err != nil {
		return fmt.Errorf("send username: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		server := bufio.NewScanner(conn)
		for server.Scan() {
			fmt.Println(server.Text())
		}
		fmt.Println("Disconnected from server.")
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		if _, err := fmt.Fprintf(conn, "%s\n", stdin.Text()); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}

	// Stdin closed (Ctrl+D): close the connection and wait for the
	// reader to drain.
	conn.Close()
	<-done
	return stdin.Err()
}
