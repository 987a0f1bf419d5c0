package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultLogDir returns the platform-native folder for appName's log
// files:
//
//   - macOS: ~/Library/Logs/<app>
//   - Windows: %LOCALAPPDATA%\<app>\Logs
//   - elsewhere: $XDG_STATE_HOME/<app>/log, or ~/.local/state/<app>/log
//
// It only resolves the path; the console sink creates the folder on first
// use.
func DefaultLogDir(appName string) (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory, caused by %w", err)
		}
		return filepath.Join(home, "Library", "Logs", appName), nil

	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory, caused by %w", err)
			}
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, "Logs"), nil

	default:
		stateDir := os.Getenv("XDG_STATE_HOME")
		if stateDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory, caused by %w", err)
			}
			stateDir = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(stateDir, appName, "log"), nil
	}
}
