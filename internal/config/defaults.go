package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultHTTPPort returns the default HTTP port.
func DefaultHTTPPort() int {
	return 8080
}

// DefaultConfigPath returns the default path for the leafsense config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "leafsense", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "leafsense")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "leafsense")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "leafsense")
		}
		return filepath.Join(home, ".config", "leafsense")
	}
}

// DefaultUploadPath returns the default path for the upload deposit directory.
func DefaultUploadPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "leafsense", "uploads")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "leafsense", "uploads")
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "leafsense", "uploads")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "leafsense", "uploads")
		}
		return filepath.Join(home, ".cache", "leafsense", "uploads")
	}
}
