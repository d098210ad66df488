package update

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

// InstallGzippedBinary decompresses a downloaded release artifact and swaps
// it into place over the target executable. The new binary is written next
// to the target first so the final step is a same-filesystem rename.
func InstallGzippedBinary(artifactPath, targetPath string) error {
	artifact, err := os.Open(artifactPath)
	if err != nil {
		return fmt.Errorf("failed to open update artifact: %w", err)
	}
	defer artifact.Close()

	gz, err := gzip.NewReader(artifact)
	if err != nil {
		return fmt.Errorf("update artifact is not gzip data: %w", err)
	}
	defer gz.Close()

	stagingPath := filepath.Join(filepath.Dir(targetPath), ".cornerbrand-update.partial")
	staging, err := os.OpenFile(stagingPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("failed to stage update: %w", err)
	}

	if _, err := io.Copy(staging, gz); err != nil {
		staging.Close()
		os.Remove(stagingPath)
		return fmt.Errorf("failed to decompress update: %w", err)
	}
	if err := staging.Close(); err != nil {
		os.Remove(stagingPath)
		return fmt.Errorf("failed to finish staging update: %w", err)
	}

	if err := os.Rename(stagingPath, targetPath); err != nil {
		os.Remove(stagingPath)
		return fmt.Errorf("failed to install update: %w", err)
	}

	log.Info().Str("target", targetPath).Msg("Update binary installed")
	return nil
}
