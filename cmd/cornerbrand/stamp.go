package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/RepentanceHeaven/CornerBrand/internal/batch"
	"github.com/RepentanceHeaven/CornerBrand/internal/engine"
	"github.com/RepentanceHeaven/CornerBrand/internal/eventbus"
	"github.com/RepentanceHeaven/CornerBrand/internal/intake"
	"github.com/RepentanceHeaven/CornerBrand/internal/picker"
	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// stamp flags
var (
	stampDirFlag       string
	stampPositionFlag  string
	stampSizeFlag      int
	stampOutputDirFlag string
	stampLogoFlag      string
	stampEngineFlag    string
)

var stampCmd = &cobra.Command{
	Use:   "stamp [files...]",
	Short: "Stamp the logo into a batch of images and PDFs",
	Long: `Stamp places the configured logo into a corner of each input file and
writes the stamped copies next to the originals in a CornerBrand_Output
directory (or into --output-dir when given), plus a JSON report per batch.

Files can be passed as arguments, collected from a directory with --dir, or
chosen interactively through a native file picker when neither is given.
Unsupported files are skipped with a warning. Press Ctrl-C to cancel a
running batch; files already stamped keep their outputs.`,
	Run: runStamp,
}

func init() {
	stampCmd.Flags().StringVarP(&stampDirFlag, "dir", "d", "", "Directory to scan for supported files")
	stampCmd.Flags().StringVarP(&stampPositionFlag, "position", "p", "", "Logo corner: top-left, top-right, bottom-left, bottom-right")
	stampCmd.Flags().IntVarP(&stampSizeFlag, "size", "s", 0, "Logo size as percent of the image's short side (1-300)")
	stampCmd.Flags().StringVarP(&stampOutputDirFlag, "output-dir", "o", "", "Write all outputs into this directory instead of per-input folders")
	stampCmd.Flags().StringVar(&stampLogoFlag, "logo", "", "Logo file to stamp (defaults to logo.png/logo.webp next to the binary)")
	stampCmd.Flags().StringVar(&stampEngineFlag, "engine", engine.DefaultBinaryName, "Stamping engine binary to invoke")
}

// runStamp is the main execution logic called by Cobra.
func runStamp(cmd *cobra.Command, args []string) {
	paths, interactive := collectInputs(args)
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "No supported files to stamp.")
		os.Exit(1)
	}

	st := resolveStampSettings()
	log.Info().
		Int("files", len(paths)).
		Str("position", string(st.Position)).
		Int("sizePercent", st.SizePercent).
		Msg("Starting batch")

	var dialog *picker.BatchProgress
	if interactive {
		dialog = picker.ShowBatchProgress(len(paths))
		defer dialog.Close()
	}
	onProgress := func(p batch.Progress) {
		dialog.Update(p.Done, p.FileName)
		printProgress(p)
	}

	bus := eventbus.New()
	eng := engine.NewProcessEngine(stampEngineFlag, bus)
	coord := batch.New(eng, bus, onProgress)

	if logoPath, err := engine.ResolveLogoPath(stampLogoFlag); err != nil {
		log.Warn().Err(err).Msg("No logo found, engine will use its bundled default")
	} else {
		coord.SetLogoPath(logoPath)
	}

	// Ctrl-C cancels the run; the engine returns results for files it
	// already finished.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nCancelling...")
		coord.Cancel()
	}()

	results, err := coord.Run(context.Background(), paths, st, nil, stampOutputDirFlag)
	if err != nil {
		log.Error().Err(err).Msg("Batch failed")
		os.Exit(1)
	}

	printSummary(results)
}

// collectInputs gathers candidate paths from args, a scanned directory, or an
// interactive picker, then filters them to supported input files. The second
// return reports whether the picker was used.
func collectInputs(args []string) ([]string, bool) {
	interactive := false
	candidates := args
	if stampDirFlag != "" {
		scanned, err := intake.ScanDirectory(stampDirFlag)
		if err != nil {
			log.Error().Err(err).Str("dir", stampDirFlag).Msg("Failed to scan directory")
			os.Exit(1)
		}
		candidates = append(candidates, scanned...)
	}
	if len(candidates) == 0 {
		picked, err := picker.PickFiles()
		if err != nil {
			log.Error().Err(err).Msg("File picker failed")
			os.Exit(1)
		}
		candidates = picked
		interactive = true
	}

	added := intake.AddUnique(nil, candidates)
	for _, rejected := range added.Rejected {
		log.Warn().Str("path", rejected).Msg("Skipping unsupported file")
	}
	for i := range added.Accepted {
		f := &added.Accepted[i]
		intake.EnrichMetadata(f)
		if f.Meta != nil {
			log.Debug().
				Str("file", f.Name).
				Int("width", f.Meta.Width).
				Int("height", f.Meta.Height).
				Msg("Read image metadata")
		}
	}

	paths := make([]string, len(added.Accepted))
	for i, f := range added.Accepted {
		paths[i] = f.Path
	}
	return paths, interactive
}

// resolveStampSettings loads persisted settings and applies flag overrides
// through the same sanitizer used for stored records.
func resolveStampSettings() settings.Settings {
	st := settings.Load()
	if stampPositionFlag == "" && stampSizeFlag == 0 {
		return st
	}
	raw := map[string]any{
		"position":    string(st.Position),
		"sizePercent": st.SizePercent,
	}
	if stampPositionFlag != "" {
		raw["position"] = stampPositionFlag
	}
	if stampSizeFlag != 0 {
		raw["sizePercent"] = stampSizeFlag
	}
	return settings.Sanitize(raw)
}

func printProgress(p batch.Progress) {
	status := "ok"
	if !p.OK {
		status = "failed"
	}
	fmt.Printf("[%d/%d] %s (%s)\n", p.Done, p.Total, p.FileName, status)
}

func printSummary(results []engine.FileResult) {
	var failed int
	for _, r := range results {
		if !r.OK {
			failed++
			log.Warn().Str("file", intake.BaseName(r.InputPath)).Str("error", r.Error).Msg("File not stamped")
		}
	}
	fmt.Printf("\nDone: %d stamped, %d failed.\n", len(results)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
