package ipc

import (
	"bufio"
	"io"
	"net"
	"strings"

	"github.com/BitPonyLLC/colorname/pkg/util"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type acceptedConn struct {
	conn net.Conn
}

func (ac *acceptedConn) processCommand(parent *IPCServer) {
	parent.conns.Store(ac, ac)
	defer func() {
		parent.conns.Delete(ac)
		ac.conn.Close()
		parent.log.Trace().Msg("client disconnected")
	}()
	defer util.LogRecover()

	parent.log.Trace().Msg("client connected")

	reader := bufio.NewReader(ac.conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		parent.log.Err(err).Msg("unable to read command from client")
		return
	}

	line = strings.TrimSpace(line)
	clog := parent.log.With().Str("cmd", line).Logger()

	outWriter := &ConnWriter{conn: ac.conn}
	errWriter := &ConnWriter{conn: ac.conn, prefix: ErrPrefix}

	args, err := shellwords.Parse(line)
	if err != nil {
		errWriter.Writeln("unable to parse command: %s", line)
		return
	}

	parent.cmdMutex.Lock()
	defer parent.cmdMutex.Unlock()

	setOutput(parent.cmd, outWriter, errWriter)
	defer setOutput(parent.cmd, nil, nil)
	defer ResetFlags(parent.cmd)

	clog.Debug().Msg("executing")
	parent.cmd.SetArgs(args)
	err = parent.cmd.ExecuteContext(parent.ctx)
	if err != nil {
		clog.Err(err).Msg("command failed")
	}

	if outWriter.err != nil {
		clog.Err(outWriter.err).Msg("output writer failed")
	}

	if errWriter.err != nil {
		clog.Err(errWriter.err).Msg("error writer failed")
	}
}

// setOutput points cmd and its children at out and err. Nil restores cobra's
// defaults.
func setOutput(cmd *cobra.Command, out, err io.Writer) {
	cmd.SetOut(out)
	cmd.SetErr(err)
	for _, c := range cmd.Commands() {
		setOutput(c, out, err)
	}
}

// ResetFlags puts every flag of cmd and its children back to its default so one
// execution's flags are not seen by the next.
func ResetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			def := strings.TrimSuffix(strings.TrimPrefix(f.DefValue, "["), "]")
			if def == "" {
				sv.Replace(nil)
			} else {
				sv.Replace(strings.Split(def, ","))
			}
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}

	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		ResetFlags(c)
	}
}
