package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
	"github.com/spf13/cobra"
)

// settings flags
var (
	settingsPositionFlag string
	settingsSizeFlag     int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the stored stamping settings",
	Long: `Settings prints the current stamping settings as JSON. With --position or
--size it updates the stored record first; out-of-range values are clamped
and unknown positions fall back to the default corner.`,
	Run: runSettings,
}

func init() {
	settingsCmd.Flags().StringVarP(&settingsPositionFlag, "position", "p", "", "Logo corner: top-left, top-right, bottom-left, bottom-right")
	settingsCmd.Flags().IntVarP(&settingsSizeFlag, "size", "s", 0, "Logo size as percent of the image's short side (1-300)")
}

func runSettings(cmd *cobra.Command, args []string) {
	st := settings.Load()

	if settingsPositionFlag != "" || settingsSizeFlag != 0 {
		raw := map[string]any{
			"position":    string(st.Position),
			"sizePercent": st.SizePercent,
		}
		if settingsPositionFlag != "" {
			raw["position"] = settingsPositionFlag
		}
		if settingsSizeFlag != 0 {
			raw["sizePercent"] = settingsSizeFlag
		}
		st = settings.Sanitize(raw)
		settings.Save(st)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		fmt.Fprintln(os.Stderr, "cornerbrand: cannot print settings:", err)
		os.Exit(1)
	}
}
