package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	configDirName    = ".cornerbrand"
	settingsFileName = "settings.json"
)

// Load reads the persisted settings record and sanitizes it. Missing,
// unreadable, or malformed records yield the defaults; loading never fails.
func Load() Settings {
	path, err := settingsPath()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot resolve settings path, using defaults")
		return Default()
	}
	return LoadFrom(path)
}

// LoadFrom reads and sanitizes a settings record at an explicit path.
func LoadFrom(path string) Settings {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read settings, using defaults")
		}
		return Default()
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Malformed settings record, using defaults")
		return Default()
	}

	return Sanitize(raw)
}

// Save persists the settings record. Persistence is best-effort: storage
// failures are logged and swallowed, never surfaced to the caller.
func Save(s Settings) {
	path, err := settingsPath()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot resolve settings path, settings not saved")
		return
	}
	SaveTo(path, s)
}

// SaveTo persists the settings record to an explicit path, creating the
// parent directory if needed.
func SaveTo(path string, s Settings) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to create settings directory")
		return
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode settings")
		return
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to write settings")
		return
	}

	log.Debug().Str("path", path).Msg("Settings saved")
}

func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, settingsFileName), nil
}
