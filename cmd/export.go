package cmd

import (
	"io"
	"os"

	"github.com/BitPonyLLC/colorname/pkg/colordef"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportPath string

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export NAME",
	Short: "Writes a loaded color list in the color definition file format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := sess.Find(args[0])
		if err != nil {
			return fail(20, err)
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportPath != "" {
			f, err := os.Create(exportPath)
			if err != nil {
				return fail(21, "unable to create %s: %w", exportPath, err)
			}
			defer f.Close()
			out = f
		}

		err = colordef.Write(out, l)
		if err != nil {
			return fail(21, err)
		}

		if exportPath != "" {
			log.Info().Str("name", l.Name).Str("path", exportPath).Msg("exported")
		}

		return nil
	},
}
