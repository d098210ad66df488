package main

import (
	"context"
	"fmt"
	"os"

	"github.com/RepentanceHeaven/CornerBrand/internal/picker"
	"github.com/RepentanceHeaven/CornerBrand/internal/update"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// update flags
var (
	updateManifestURLFlag string
	updateQuietFlag       bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release and install it",
	Long: `Update fetches the release manifest, and when a newer version exists asks
for confirmation through a native dialog before downloading and replacing the
current binary. With --quiet the "already up to date" notice is suppressed,
which suits scheduled background checks.`,
	Run: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateManifestURLFlag, "manifest-url", "", "URL of the release manifest JSON")
	updateCmd.Flags().BoolVarP(&updateQuietFlag, "quiet", "q", false, "Stay silent when no update is available")
	updateCmd.MarkFlagRequired("manifest-url")
}

func runUpdate(cmd *cobra.Command, args []string) {
	svc := update.NewHTTPService(updateManifestURLFlag, version)
	mgr := update.NewManager(svc, picker.Dialogs{}, printDownloadState)

	log.Info().Str("version", version).Msg("Checking for updates")
	mgr.Check(context.Background(), !updateQuietFlag)
}

func printDownloadState(s update.DownloadState) {
	if !s.Active {
		if s.DownloadedBytes > 0 {
			fmt.Fprintln(os.Stderr, "\rDownload complete.          ")
		}
		return
	}
	if s.Percent != nil {
		fmt.Fprintf(os.Stderr, "\rDownloading... %d%%", *s.Percent)
		return
	}
	fmt.Fprintf(os.Stderr, "\rDownloading... %d bytes", s.DownloadedBytes)
}
