package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/BitPonyLLC/colorname/pkg/colorspace"
	"github.com/BitPonyLLC/colorname/pkg/matcher"
	"github.com/BitPonyLLC/colorname/pkg/source"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var matchSpace string
var matchImage string
var matchLimit int
var matchEnable []string
var matchDisable []string

func init() {
	matchCmd.Flags().StringVarP(&matchSpace, "space", "s", "", "color space to compare in (RGB, HSV, HSL, YIQ, LAB)")
	matchCmd.Flags().StringVarP(&matchImage, "image", "i", "", "use the dominant color of an image as the query")
	matchCmd.Flags().IntVarP(&matchLimit, "limit", "n", 0, "only show this many results (0 shows all)")
	matchCmd.Flags().StringArrayVar(&matchEnable, "enable", nil, "enable a color list for this query only (repeatable)")
	matchCmd.Flags().StringArrayVar(&matchDisable, "disable", nil, "disable a color list for this query only (repeatable)")
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match [COLOR]",
	Short: "Lists the named colors nearest to a color",
	Long: `Lists the named colors nearest to a color. The color may be given as RRGGBB,
#RRGGBB, #RGB, r,g,b or as the name of a known color. A known color name wins over
a hex value spelled the same way (e.g. "Fab"); add a leading # to force the hex
reading. Use --image to query with the dominant color of a picture instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		if matchImage != "" {
			if query != "" {
				return fail(10, "provide either a color or --image, not both")
			}

			c, err := source.Image(matchImage).GetColor()
			if err != nil {
				return fail(11, "can't determine dominant color of %s: %w", matchImage, err)
			}

			log.Debug().Str("path", matchImage).Str("color", c.Hex()).Msg("dominant color")
			query = c.Hex()
		}

		if query == "" {
			return fail(10, "a color or --image is required")
		}

		if isRemote() {
			return sendMsgViaIPC(cmd, quoteArgs(forwardedMatchArgs(cmd, query)))
		}

		color, err := resolveQuery(query)
		if err != nil {
			return fail(12, err)
		}

		space := sess.Space()
		if matchSpace != "" {
			space, err = colorspace.ParseSpace(matchSpace)
			if err != nil {
				return fail(13, err)
			}
		}

		overrides := map[string]bool{}
		for _, name := range matchEnable {
			overrides[name] = true
		}
		for _, name := range matchDisable {
			overrides[name] = false
		}

		results, err := sess.RankWith(color, space, overrides)
		if err != nil {
			return fail(14, err)
		}

		return printResults(cmd.OutOrStdout(), color, space, results, matchLimit)
	},
}

// resolveQuery accepts a known color name or any text notation. Names are
// tried first unless the query starts with #.
func resolveQuery(query string) (colorspace.RGBColor, error) {
	if !strings.HasPrefix(query, "#") {
		c, ok := sess.Lookup(query)
		if ok {
			return c, nil
		}
	}

	c, err := source.Text(query).GetColor()
	if err != nil {
		if errors.Is(err, source.ErrUnrecognized) {
			return c, fmt.Errorf("%w: %s is neither a color value nor a known color name", source.ErrUnrecognized, query)
		}
		return c, err
	}

	return c, nil
}

func forwardedMatchArgs(cmd *cobra.Command, query string) []string {
	args := []string{cmd.Name()}

	if matchSpace != "" {
		args = append(args, "--space", matchSpace)
	}

	if matchLimit != 0 {
		args = append(args, "--limit", strconv.Itoa(matchLimit))
	}

	for _, name := range matchEnable {
		args = append(args, "--enable", name)
	}

	for _, name := range matchDisable {
		args = append(args, "--disable", name)
	}

	return append(args, "--", query)
}

func printResults(out io.Writer, query colorspace.RGBColor, space colorspace.Space, results []matcher.Result, limit int) error {
	fmt.Fprintf(out, "%s in %s\n", query, space)

	if len(results) == 0 {
		fmt.Fprintln(out, "No enabled color lists.")
		return nil
	}

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DISTANCE\tNAME\tSOURCE\tRGB")
	fmt.Fprintln(w, "--------\t----\t------\t---")

	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n", r.Distance, r.Name, r.Source, r.Color)
	}

	return w.Flush()
}
