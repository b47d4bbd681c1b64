package cmd

import (
	"errors"
	"strings"

	"github.com/BitPonyLLC/colorname/pkg/ipc"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNoServer = errors.New("no server found: start one with `serve`")

// isRemote is true when another process is serving and should answer instead.
func isRemote() bool {
	return pidPath.IsRunning() && !pidPath.IsOurs()
}

// forwardToServer relays msg to a running server, failing when there is none.
func forwardToServer(cmd *cobra.Command, msg string) error {
	if !pidPath.IsRunning() {
		return fail(2, errNoServer)
	}

	return sendMsgViaIPC(cmd, msg)
}

func sendMsgViaIPC(cmd *cobra.Command, msg string) error {
	log.Debug().Int("pid", pidPath.Getpid()).Str("cmd", msg).Msg("sending")

	client := &ipc.Client{
		RespCB: func(line string) {
			cmd.Println(line)
		},
		ErrCB: func(line string) {
			cmd.PrintErrln(line)
		},
	}

	err := client.Send(cmd.Context(), viper.GetString("sockpath"), msg)
	if err != nil {
		return fail(2, err)
	}

	return nil
}

// quoteArgs joins args into a single command line that shellwords will split
// back into the same args.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		arg = strings.ReplaceAll(arg, `\`, `\\`)
		arg = strings.ReplaceAll(arg, `"`, `\"`)
		quoted[i] = `"` + arg + `"`
	}
	return strings.Join(quoted, " ")
}
