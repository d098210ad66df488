package pathpolicy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RepentanceHeaven/CornerBrand/internal/engine"
)

// Report is the JSON record written alongside a batch run's outputs.
type Report struct {
	Timestamp int64               `json:"timestamp"`
	Settings  engine.Settings     `json:"settings"`
	Results   []engine.FileResult `json:"results"`
}

// WriteReports persists batch reports for a finished run. With an output
// override the whole run gets a single report there; otherwise results are
// grouped by their input's parent directory and each group gets its own
// report. Report writing is best-effort and never fails the run.
func WriteReports(st engine.Settings, results []engine.FileResult, outputBaseDir string) {
	if len(results) == 0 {
		return
	}

	if outputBaseDir != "" {
		writeReportFile(st, results, outputBaseDir, outputBaseDir)
		return
	}

	grouped := make(map[string][]engine.FileResult)
	for _, r := range results {
		parent := filepath.Dir(r.InputPath)
		if parent == "." || parent == "" {
			continue
		}
		grouped[parent] = append(grouped[parent], r)
	}

	parents := make([]string, 0, len(grouped))
	for parent := range grouped {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	for _, parent := range parents {
		writeReportFile(st, grouped[parent], parent, "")
	}
}

func writeReportFile(st engine.Settings, results []engine.FileResult, inputDir, outputBaseDir string) {
	reportPath, err := BuildReportPath(inputDir, outputBaseDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", inputDir).Msg("Cannot resolve report path, report skipped")
		return
	}

	report := Report{
		Timestamp: time.Now().Unix(),
		Settings:  st,
		Results:   results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Cannot encode batch report")
		return
	}

	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		log.Warn().Err(err).Str("path", reportPath).Msg("Cannot write batch report")
		return
	}

	log.Debug().Str("path", reportPath).Int("results", len(results)).Msg("Batch report written")
}
