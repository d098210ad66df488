package main

import (
	"fmt"
	"os"

	"github.com/RepentanceHeaven/CornerBrand/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is the application version, overridable at build time with
// -ldflags "-X main.version=...".
var version = "1.2.0"

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "cornerbrand",
	Short: "Batch corner-logo stamping for images and PDFs",
	Long: `CornerBrand stamps a logo into a corner of each input image or PDF.

It accepts JPEG, PNG, WebP, and PDF inputs, places the logo in a configurable
corner at a configurable size, and writes stamped copies alongside the
originals (or into an explicit output directory) together with a JSON report.

Examples:
  cornerbrand stamp photo.jpg scan.pdf
  cornerbrand stamp --dir ./photos --position top-left --size 15
  cornerbrand preview photo.jpg --size 20
  cornerbrand settings --position bottom-right --size 12
  cornerbrand update --manifest-url https://example.com/cornerbrand/latest.json`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func init() {
	rootCmd.AddCommand(stampCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(updateCmd)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Unexpected internal error")
			fmt.Fprintln(os.Stderr, "cornerbrand: unexpected internal error, see log output above")
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
