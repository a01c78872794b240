package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the Goatchat data directory.
// - GOATCHAT_HOME if set
// - Windows: %APPDATA%\goatchat
// - Other OS: ~/.goatchat
func DataDir() string {
	if dir := os.Getenv("GOATCHAT_HOME"); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "goatchat")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".goatchat"
	}
	return filepath.Join(home, ".goatchat")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "goatchat.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
