package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrRemoteFailed is returned by Send when the server reported errors.
var ErrRemoteFailed = errors.New("remote command reported errors")

// Client sends a single command line to an IPCServer.
type Client struct {
	RespCB func(line string) // invoked for each line of regular output
	ErrCB  func(line string) // invoked for each error line, without its prefix
}

// Send connects to the server listening on path, issues msg and relays the
// response until the server closes the connection or ctx is canceled.
func (c *Client) Send(ctx context.Context, path, msg string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("unable to connect to %s: %w", path, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	_, err = conn.Write([]byte(msg + "\n"))
	if err != nil {
		return fmt.Errorf("unable to send message to %s: %w", path, err)
	}

	failed := false
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ErrPrefix) {
			failed = true
			if c.ErrCB != nil {
				c.ErrCB(strings.TrimPrefix(line, ErrPrefix))
			}
			continue
		}

		if c.RespCB != nil {
			c.RespCB(line)
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	err = scanner.Err()
	if err != nil {
		return fmt.Errorf("unable to read response from %s: %w", path, err)
	}

	if failed {
		return ErrRemoteFailed
	}

	return nil
}
