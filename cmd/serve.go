package cmd

import (
	"github.com/BitPonyLLC/colorname/pkg/util"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	serveCmd.Flags().Int("nice", 10, "the priority level of the process")
	viper.BindPFlag("nice", serveCmd.Flags().Lookup("nice"))
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keeps the color lists loaded and answers other invocations",
	Long: `Keeps the color lists loaded and answers other invocations over a unix socket.
While it runs, match and lists are forwarded to it and the enable, disable, space
and add commands change its lists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if pidPath.IsOurs() {
			return fail(30, "already serving")
		}

		err := pidPath.CheckAndSet()
		if err != nil {
			return fail(30, err)
		}

		err = util.BeNice(viper.GetInt("nice"))
		if err != nil {
			log.Warn().Err(err).Msg("continuing at normal priority")
		}

		sockPath := viper.GetString("sockpath")
		err = ipcServer.Start(cmd.Context(), &log.Logger, sockPath, rootCmd)
		if err != nil {
			return fail(31, err)
		}

		log.Info().Int("lists", len(sess.Lists())).Str("space", string(sess.Space())).
			Str("sockpath", sockPath).Msg("serving")

		<-cmd.Context().Done()
		return nil
	},
}
