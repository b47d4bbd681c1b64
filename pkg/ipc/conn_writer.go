package ipc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ConnWriter is an io.Writer that will relay any bytes written to it into the
// associated connection, prefixing every line when a prefix is set.
type ConnWriter struct {
	conn   net.Conn
	prefix string
	err    error
}

var _ io.Writer = (*ConnWriter)(nil) // ensures we conform to the io.Writer interface

// Write will write bytes to the connection. The returned count is of p's bytes,
// not including any prefixes added.
func (cw *ConnWriter) Write(p []byte) (int, error) {
	data := p
	if cw.prefix != "" {
		lines := bytes.SplitAfter(p, []byte("\n"))
		var buf bytes.Buffer
		for _, line := range lines {
			if len(line) == 0 {
				continue
			}
			buf.WriteString(cw.prefix)
			buf.Write(line)
		}
		data = buf.Bytes()
	}

	_, err := cw.conn.Write(data)
	if err != nil {
		if errors.Is(err, syscall.EPIPE) {
			// client is gone: don't write this to errors, but do pass it along to caller
			return 0, err
		}

		cw.err = err
		return 0, err
	}

	return len(p), nil
}

// Writeln will write a formatted message to the connection.
func (cw *ConnWriter) Writeln(format string, args ...any) {
	cw.Write([]byte(fmt.Sprintf(format+"\n", args...)))
}
