// Package pkg installs preview packages from the checked-out repository into
// the local typst package cache, honoring manifest exclude globs.
package pkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/typst-community/review/internal/output"
)

// ManifestFile is the manifest file name at each package root.
const ManifestFile = "typst.toml"

// Manifest is the parsed typst.toml of one package version.
type Manifest struct {
	Package  PackageInfo   `toml:"package"`
	Template *TemplateInfo `toml:"template"`
}

// PackageInfo is the [package] table of the manifest.
type PackageInfo struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Entrypoint  string   `toml:"entrypoint"`
	Authors     []string `toml:"authors"`
	License     string   `toml:"license"`
	Description string   `toml:"description"`
	Exclude     []string `toml:"exclude"`
}

// TemplateInfo is the optional [template] table. Its entrypoint is relative
// to an instantiated template directory, not to the package root.
type TemplateInfo struct {
	Path       string `toml:"path"`
	Entrypoint string `toml:"entrypoint"`
}

// ReadManifest reads and parses the typst.toml inside dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, output.NewUserError(fmt.Sprintf("package manifest not found at %s", path))
		}
		return nil, output.NewSystemErrorWithCause(
			fmt.Sprintf("failed to read package manifest %s", path), err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, output.NewUserError(fmt.Sprintf("invalid package manifest %s: %v", path, err))
	}
	return &m, nil
}
