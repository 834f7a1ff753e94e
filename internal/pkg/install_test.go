package pkg

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/typst-community/review/internal/output"
	"github.com/typst-community/review/internal/session"
)

func testPrinter() *output.Printer {
	return output.NewPrinter(io.Discard, false)
}

// buildSource lays out a package at <repoRoot>/packages/preview/<name>/<version>
// with the given manifest and files.
func buildSource(t *testing.T, repoRoot string, p session.Package, manifest string, files map[string]string) {
	t.Helper()
	dir := SourceDir(repoRoot, p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writeManifest(t, dir, manifest)
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

// listFiles returns the sorted slash-separated relative paths of all regular
// files under root.
func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}
	sort.Strings(files)
	return files
}

func TestInstall_FiltersExcludes(t *testing.T) {
	repoRoot := t.TempDir()
	dataRoot := t.TempDir()
	p := session.Package{Name: "foo", Version: "1.0.0"}

	buildSource(t, repoRoot, p, `
[package]
name = "foo"
version = "1.0.0"
entrypoint = "lib.typ"
exclude = ["*.png", "examples"]
`, map[string]string{
		"lib.typ":           "#let foo = 1",
		"logo.png":          "binary",
		"docs/guide.typ":    "= Guide",
		"examples/demo.typ": "#import",
	})

	m, err := Install(p, repoRoot, dataRoot, testPrinter())
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if m.Package.Name != "foo" {
		t.Errorf("manifest name = %q", m.Package.Name)
	}

	got := listFiles(t, TargetDir(dataRoot, p))
	want := []string{"docs/guide.typ", "lib.typ", "typst.toml"}
	if len(got) != len(want) {
		t.Fatalf("installed files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("installed files = %v, want %v", got, want)
		}
	}
}

func TestInstall_ReplacesNeverMerges(t *testing.T) {
	repoRoot := t.TempDir()
	dataRoot := t.TempDir()
	p := session.Package{Name: "foo", Version: "1.0.0"}

	manifest := `
[package]
name = "foo"
version = "1.0.0"
entrypoint = "lib.typ"
`
	buildSource(t, repoRoot, p, manifest, map[string]string{
		"lib.typ": "v1",
		"old.typ": "stale",
	})
	if _, err := Install(p, repoRoot, dataRoot, testPrinter()); err != nil {
		t.Fatalf("first Install: %v", err)
	}

	// Re-layout the same (name, version) without old.typ.
	if err := os.RemoveAll(SourceDir(repoRoot, p)); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	buildSource(t, repoRoot, p, manifest, map[string]string{
		"lib.typ": "v2",
		"new.typ": "fresh",
	})
	if _, err := Install(p, repoRoot, dataRoot, testPrinter()); err != nil {
		t.Fatalf("second Install: %v", err)
	}

	target := TargetDir(dataRoot, p)
	if _, err := os.Stat(filepath.Join(target, "old.typ")); !os.IsNotExist(err) {
		t.Error("old.typ survived the re-install")
	}
	data, err := os.ReadFile(filepath.Join(target, "lib.typ"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("lib.typ = %q, want %q", data, "v2")
	}
}

func TestInstall_NegatedExcludeFailsBeforeCopy(t *testing.T) {
	repoRoot := t.TempDir()
	dataRoot := t.TempDir()
	p := session.Package{Name: "foo", Version: "1.0.0"}

	buildSource(t, repoRoot, p, `
[package]
name = "foo"
version = "1.0.0"
entrypoint = "lib.typ"
exclude = ["!keep.png"]
`, map[string]string{"lib.typ": "#let foo = 1"})

	_, err := Install(p, repoRoot, dataRoot, testPrinter())
	if err == nil {
		t.Fatal("Install accepted a negated exclude")
	}
	if _, statErr := os.Stat(TargetDir(dataRoot, p)); !os.IsNotExist(statErr) {
		t.Error("target directory was created despite the rejected pattern")
	}
}

func TestInstall_MissingManifest(t *testing.T) {
	repoRoot := t.TempDir()
	p := session.Package{Name: "ghost", Version: "0.0.1"}
	if err := os.MkdirAll(SourceDir(repoRoot, p), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	_, err := Install(p, repoRoot, t.TempDir(), testPrinter())
	if err == nil {
		t.Fatal("Install succeeded without a manifest")
	}
}

func TestInstall_SkipsNonRegularFiles(t *testing.T) {
	repoRoot := t.TempDir()
	dataRoot := t.TempDir()
	p := session.Package{Name: "foo", Version: "1.0.0"}

	buildSource(t, repoRoot, p, `
[package]
name = "foo"
version = "1.0.0"
entrypoint = "lib.typ"
`, map[string]string{"lib.typ": "#let foo = 1"})

	link := filepath.Join(SourceDir(repoRoot, p), "link.typ")
	if err := os.Symlink("lib.typ", link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if _, err := Install(p, repoRoot, dataRoot, testPrinter()); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(TargetDir(dataRoot, p), "link.typ")); !os.IsNotExist(err) {
		t.Error("symlink was installed")
	}
}
