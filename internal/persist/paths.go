package persist

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "shogicore"

// DefaultDataDir returns the platform-specific data directory this
// module uses for its BadgerDB-backed transposition-table snapshot,
// adapted from the teacher's storage.GetDataDir.
//   - macOS: ~/Library/Application Support/shogicore/tt/
//   - Linux: ~/.local/share/shogicore/tt/ (or $XDG_DATA_HOME/shogicore/tt)
//   - Windows: %APPDATA%/shogicore/tt/
func DefaultDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName, "tt")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
