// Package config resolves the platform directories used by the review CLI.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Default locations relative to the current working directory.
const (
	// DefaultRepoDir is the local checkout of the packages repository.
	DefaultRepoDir = "packages"

	// DefaultTestDir holds per-package template instantiations.
	DefaultTestDir = "test"
)

// DataDir returns the platform data directory that roots the local package
// cache. Installed packages land under <DataDir>/typst/packages/preview.
//
// Resolution:
//   - $REVIEW_DATA_HOME if set (explicit override)
//   - $XDG_DATA_HOME if set (respects XDG on any platform)
//   - %LocalAppData% on Windows
//   - ~/Library/Application Support on macOS
//   - ~/.local/share on Linux and everything else
func DataDir() string {
	// Explicit override
	if dir := os.Getenv("REVIEW_DATA_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg
	}

	// Windows: use LocalAppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return appData
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// macOS: Application Support
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support")
	}

	// Linux and friends: XDG default
	return filepath.Join(home, ".local", "share")
}

// PreviewCacheDir returns the directory that holds installed preview packages
// under the given data root: <dataRoot>/typst/packages/preview.
func PreviewCacheDir(dataRoot string) string {
	return filepath.Join(dataRoot, "typst", "packages", "preview")
}
