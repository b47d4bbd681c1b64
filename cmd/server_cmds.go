package cmd

import (
	"path/filepath"

	"github.com/BitPonyLLC/colorname/pkg/colorspace"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(enableCmd, disableCmd, spaceCmd, addCmd, quitCmd)
}

var enableCmd = &cobra.Command{
	Use:   "enable NAME...",
	Short: "Includes color lists in the server's results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args, true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable NAME...",
	Short: "Excludes color lists from the server's results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args, false)
	},
}

var spaceCmd = &cobra.Command{
	Use:   "space [NAME]",
	Short: "Shows or changes the server's color space",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !pidPath.IsOurs() {
			return forwardToServer(cmd, quoteArgs(append([]string{cmd.Name()}, args...)))
		}

		if len(args) > 0 {
			space, err := colorspace.ParseSpace(args[0])
			if err != nil {
				return fail(40, err)
			}
			sess.SetSpace(space)
		}

		cmd.Println(sess.Space())
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add FILE...",
	Short: "Loads more color definition files into the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !pidPath.IsOurs() {
			msg := []string{cmd.Name()}
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return fail(41, "unable to resolve %s: %w", arg, err)
				}
				msg = append(msg, abs)
			}
			return forwardToServer(cmd, quoteArgs(msg))
		}

		before := len(sess.Lists())
		failures := sess.Load(args...)
		for _, err := range failures {
			cmd.PrintErrln(err)
		}

		cmd.Printf("loaded %d of %d files\n", len(sess.Lists())-before, len(args))
		if len(failures) > 0 {
			return fail(41, "%d files were skipped", len(failures))
		}

		return nil
	},
}

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Tells the server to quit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !pidPath.IsOurs() {
			return forwardToServer(cmd, cmd.Name())
		}

		log.Info().Msg("received request to quit")
		cancelFunc()
		return nil
	},
}

func setEnabled(cmd *cobra.Command, names []string, enabled bool) error {
	if !pidPath.IsOurs() {
		return forwardToServer(cmd, quoteArgs(append([]string{cmd.Name()}, names...)))
	}

	for _, name := range names {
		err := sess.SetEnabled(name, enabled)
		if err != nil {
			return fail(42, err)
		}
	}

	return nil
}
