package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/BitPonyLLC/colorname/pkg/termwrap"

	"github.com/spf13/cobra"
)

var listsVerbose bool

func init() {
	listsCmd.Flags().BoolVarP(&listsVerbose, "verbose", "v", false, "also show each list's options")
	rootCmd.AddCommand(listsCmd)
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Shows the loaded color lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if isRemote() {
			args := []string{cmd.Name()}
			if listsVerbose {
				args = append(args, "--verbose")
			}
			return sendMsgViaIPC(cmd, quoteArgs(args))
		}

		out := cmd.OutOrStdout()
		tw := termwrap.NewTermWrap(80, 24)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ENABLED\tNAME\tCOLORS\tORIGIN")
		fmt.Fprintln(w, "-------\t----\t------\t------")

		for _, l := range sess.Lists() {
			enabled := "no"
			if l.Enabled {
				enabled = "yes"
			}

			origin := l.Path
			if origin == "" {
				origin = "builtin"
			}

			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", enabled, l.Name, l.Len(), origin)

			if listsVerbose {
				keys := make([]string, 0, len(l.Options))
				for k := range l.Options {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				// flush first so the options are not aligned as table cells
				w.Flush()
				for _, k := range keys {
					fmt.Fprint(out, tw.IndentedParagraph("    ", k+" = "+l.Options[k], 40))
				}
			}
		}

		return w.Flush()
	},
}
