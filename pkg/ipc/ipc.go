// Package ipc lets one process run cobra commands on behalf of others over a
// unix socket. Each connection carries a single command line; its output is
// streamed back and the connection is closed when the command finishes.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/BitPonyLLC/colorname/pkg/util"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrPrefix marks lines of output written to the command's error stream.
const ErrPrefix = "ERR: "

type IPCServer struct {
	ctx      context.Context
	log      *zerolog.Logger
	conns    sync.Map
	cmd      *cobra.Command
	listener net.Listener
	path     string

	// commands share one cobra tree, so only one may execute at a time
	cmdMutex sync.Mutex
}

// Start listens on path and executes commands against cmd until ctx is
// canceled or Stop is called.
func (ipc *IPCServer) Start(ctx context.Context, log *zerolog.Logger, path string, cmd *cobra.Command) error {
	err := os.Remove(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("unable to remove %s: %w", path, err)
		}
	}

	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", path, err)
	}

	// let anyone talk to us
	err = os.Chmod(path, 0666)
	if err != nil {
		l.Close()
		return fmt.Errorf("unable to change permissions to %s: %w", path, err)
	}

	ipc.ctx = ctx
	ipc.log = log
	ipc.cmd = cmd
	ipc.listener = l
	ipc.path = path

	go func() {
		<-ctx.Done()
		ipc.Stop()
	}()

	go func() {
		defer util.LogRecover()

		for {
			conn, err := l.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					ipc.log.Error().Err(err).Str("path", path).Msg("unable to accept new connection")
				}
				break
			}

			ac := &acceptedConn{conn: conn}
			go ac.processCommand(ipc)
		}

		ipc.conns.Range(func(key, value any) bool {
			ac := key.(*acceptedConn)
			ac.conn.Close()
			return true
		})
	}()

	return nil
}

// Stop closes the listener and removes the socket. Safe to call more than once
// or on a server that was never started.
func (ipc *IPCServer) Stop() {
	if ipc.listener == nil {
		return
	}

	err := ipc.listener.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		ipc.log.Warn().Err(err).Str("path", ipc.path).Msg("unable to close listener")
	}

	os.Remove(ipc.path)
}
