package config

import (
	"path/filepath"
	"testing"
)

func TestDataDir_ExplicitOverride(t *testing.T) {
	t.Setenv("REVIEW_DATA_HOME", "/custom/path")
	if got := DataDir(); got != "/custom/path" {
		t.Errorf("DataDir() = %q, want %q", got, "/custom/path")
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	t.Setenv("REVIEW_DATA_HOME", "")
	t.Setenv("XDG_DATA_HOME", "/xdg/share")
	if got := DataDir(); got != "/xdg/share" {
		t.Errorf("DataDir() = %q, want %q", got, "/xdg/share")
	}
}

func TestDataDir_Default(t *testing.T) {
	// Clear overrides
	t.Setenv("REVIEW_DATA_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	dir := DataDir()
	if dir == "" {
		t.Fatal("DataDir() returned empty string")
	}
}

func TestPreviewCacheDir(t *testing.T) {
	got := PreviewCacheDir("/data")
	want := filepath.Join("/data", "typst", "packages", "preview")
	if got != want {
		t.Errorf("PreviewCacheDir() = %q, want %q", got, want)
	}
}
