package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RepentanceHeaven/CornerBrand/internal/engine"
	"github.com/RepentanceHeaven/CornerBrand/internal/pathpolicy"
	"github.com/RepentanceHeaven/CornerBrand/internal/preview"
	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// preview flags
var (
	previewPositionFlag string
	previewSizeFlag     int
	previewLogoFlag     string
	previewOutFlag      string
)

var previewCmd = &cobra.Command{
	Use:   "preview <image>",
	Short: "Render a stamped preview of a single image",
	Long: `Preview composites the logo onto one image at reduced resolution and
writes the result as a WebP file, without touching the original. Use it to
check position and size before running a full batch.`,
	Args: cobra.ExactArgs(1),
	Run:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewPositionFlag, "position", "p", "", "Logo corner: top-left, top-right, bottom-left, bottom-right")
	previewCmd.Flags().IntVarP(&previewSizeFlag, "size", "s", 0, "Logo size as percent of the image's short side (1-300)")
	previewCmd.Flags().StringVar(&previewLogoFlag, "logo", "", "Logo file to stamp (defaults to logo.png/logo.webp next to the binary)")
	previewCmd.Flags().StringVarP(&previewOutFlag, "out", "o", "", "Output file (defaults to a temporary preview directory)")
}

func runPreview(cmd *cobra.Command, args []string) {
	srcPath := args[0]

	st := settings.Load()
	if previewPositionFlag != "" || previewSizeFlag != 0 {
		raw := map[string]any{
			"position":    string(st.Position),
			"sizePercent": st.SizePercent,
		}
		if previewPositionFlag != "" {
			raw["position"] = previewPositionFlag
		}
		if previewSizeFlag != 0 {
			raw["sizePercent"] = previewSizeFlag
		}
		st = settings.Sanitize(raw)
	}

	logoPath, err := engine.ResolveLogoPath(previewLogoFlag)
	if err != nil {
		log.Error().Err(err).Msg("No logo found")
		os.Exit(1)
	}

	src, err := preview.DecodeFile(srcPath)
	if err != nil {
		log.Error().Err(err).Str("path", srcPath).Msg("Cannot decode source image")
		os.Exit(1)
	}
	logo, err := preview.DecodeFile(logoPath)
	if err != nil {
		log.Error().Err(err).Str("path", logoPath).Msg("Cannot decode logo image")
		os.Exit(1)
	}

	img, err := preview.Composite(src, logo, st.Position, st.SizePercent)
	if err != nil {
		log.Error().Err(err).Msg("Preview rendering failed")
		os.Exit(1)
	}
	data, err := preview.EncodeWebP(img)
	if err != nil {
		log.Error().Err(err).Msg("Preview encoding failed")
		os.Exit(1)
	}

	outPath := previewOutFlag
	if outPath == "" {
		dir, err := pathpolicy.PreviewDir(uuid.NewString())
		if err != nil {
			log.Error().Err(err).Msg("Cannot create preview directory")
			os.Exit(1)
		}
		outPath = filepath.Join(dir, "preview.webp")
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Error().Err(err).Str("path", outPath).Msg("Cannot write preview")
		os.Exit(1)
	}

	fmt.Println(outPath)
}
