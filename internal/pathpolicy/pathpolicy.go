// Package pathpolicy derives the output locations the CornerBrand toolchain
// writes to: the per-folder output directory, collision-safe report names,
// and the per-request preview scratch directory.
package pathpolicy

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputDirName is the directory created next to inputs (or under the output
// override) that holds stamped files and batch reports.
const OutputDirName = "CornerBrand_Output"

const (
	reportBaseName = "cornerbrand_report"
	stampedSuffix  = "_cornerbrand"
)

// BuildOutputPath returns a non-existing path for the stamped copy of an
// input file: <dir>/CornerBrand_Output/<stem>_cornerbrand.<ext>, where dir is
// the override directory when given, else the input's own directory.
// Collisions get a numeric suffix before the extension.
func BuildOutputPath(inputPath, outputBaseDir string) (string, error) {
	outputDir, err := resolveOutputDir(filepath.Dir(inputPath), outputBaseDir)
	if err != nil {
		return "", err
	}

	name := filepath.Base(inputPath)
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]

	return nextAvailable(outputDir, stem+stampedSuffix, ext), nil
}

// BuildReportPath returns a non-existing report path under the resolved
// output directory. Existing reports are never overwritten; collisions get a
// numeric suffix: cornerbrand_report.json, cornerbrand_report(1).json, ...
func BuildReportPath(inputDir, outputBaseDir string) (string, error) {
	outputDir, err := resolveOutputDir(inputDir, outputBaseDir)
	if err != nil {
		return "", err
	}
	return nextAvailable(outputDir, reportBaseName, ".json"), nil
}

// PreviewDir returns a clean scratch directory for one preview request,
// removing any leftovers from a previous request with the same id.
func PreviewDir(requestID string) (string, error) {
	dir := filepath.Join(os.TempDir(), "cornerbrand-preview", requestID)

	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("failed to clear previous preview directory: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}
	return dir, nil
}

// resolveOutputDir ensures <base>/CornerBrand_Output exists, where base is
// the override directory when given, else the input's own directory.
func resolveOutputDir(inputDir, outputBaseDir string) (string, error) {
	base := inputDir
	if outputBaseDir != "" {
		if err := ensureDirectory(outputBaseDir); err != nil {
			return "", err
		}
		base = outputBaseDir
	}

	outputDir := filepath.Join(base, OutputDirName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	info, err := os.Stat(outputDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("output path is not a directory: %s", outputDir)
	}

	return outputDir, nil
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("output base path is not a directory: %s", path)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create output base directory: %w", err)
	}
	return nil
}

// nextAvailable finds the first non-existing <base>.<ext>, <base>(1).<ext>, ...
// name inside dir.
func nextAvailable(dir, base, ext string) string {
	first := filepath.Join(dir, base+ext)
	if _, err := os.Stat(first); os.IsNotExist(err) {
		return first
	}

	for index := 1; ; index++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s(%d)%s", base, index, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
