package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveLogoPath picks the logo file the engine should stamp with. An
// explicit path, when given, must exist; otherwise the bundled defaults are
// probed next to the executable and in the working directory, png before webp.
func ResolveLogoPath(explicit string) (string, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		info, err := os.Stat(trimmed)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("logo file does not exist or is not a file: %s", trimmed)
		}
		return trimmed, nil
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates, filepath.Join(dir, "logo.png"), filepath.Join(dir, "logo.webp"))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "logo.png"), filepath.Join(cwd, "logo.webp"))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no default logo found (logo.png/logo.webp next to the executable or in the working directory)")
}
