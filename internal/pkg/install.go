package pkg

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/typst-community/review/internal/output"
	"github.com/typst-community/review/internal/session"
)

// SourceDir returns the package's directory inside the repository checkout:
// <repoRoot>/packages/preview/<name>/<version>.
func SourceDir(repoRoot string, p session.Package) string {
	return filepath.Join(repoRoot, "packages", "preview", p.Name, p.Version)
}

// TargetDir returns the package's directory inside the local cache:
// <dataRoot>/typst/packages/preview/<name>/<version>.
func TargetDir(dataRoot string, p session.Package) string {
	return filepath.Join(dataRoot, "typst", "packages", "preview", p.Name, p.Version)
}

// Install copies the package's source tree into the local cache, minus any
// files matched by the manifest's exclude globs, and returns the parsed
// manifest for the test phase.
//
// An existing target directory is removed wholesale first: installs always
// replace, never merge, so repeated installs of the same (name, version)
// converge to the current source content. A copy failure mid-walk leaves
// the target partially populated; the test phase that follows surfaces a
// broken tree immediately.
func Install(p session.Package, repoRoot, dataRoot string, printer *output.Printer) (*Manifest, error) {
	packageDir := SourceDir(repoRoot, p)
	targetDir := TargetDir(dataRoot, p)

	printer.Print("install %s\n", printer.Ref(packageDir))

	m, err := ReadManifest(packageDir)
	if err != nil {
		return nil, err
	}

	filter, err := CompileExcludes(m.Package.Exclude)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(targetDir); err == nil {
		printer.Print("remove existing package %s\n", printer.Removal(targetDir))
		if err := os.RemoveAll(targetDir); err != nil {
			return nil, output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to remove existing package %s", targetDir), err)
		}
	}

	err = filepath.WalkDir(packageDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to traverse %s", path), err)
		}

		rel, err := filepath.Rel(packageDir, path)
		if err != nil {
			return output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to relativize %s", path), err)
		}
		if rel == "." {
			return nil
		}

		if filter.Excluded(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Directories are only traversed; symlinks and other
		// non-regular entries are not installed.
		if !d.Type().IsRegular() {
			return nil
		}

		dest := filepath.Join(targetDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to create directory %s", filepath.Dir(dest)), err)
		}
		if err := copyFile(path, dest); err != nil {
			return output.NewSystemErrorWithCause(
				fmt.Sprintf("failed to copy to %s", dest), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// copyFile copies src to dst verbatim.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
