package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()

	exts := s.ExtensionSet()
	if !exts.Has("uasset") || !exts.Has("umap") {
		t.Fatalf("default extensions missing: %v", s.Extensions)
	}
	if exts.Has("uexp") {
		t.Fatal("sibling extension must not be a recognized source extension")
	}
	if s.Marker != "index: " {
		t.Fatalf("default marker: got %q", s.Marker)
	}
	if s.Watch.Debounce <= 0 || s.Watch.RescanInterval <= 0 {
		t.Fatalf("watch defaults not set: %+v", s.Watch)
	}
}

func TestLoadAppliesDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "extensions:\n  - uasset\n  - umap\n  - upak\nwatch:\n  debounce: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !s.ExtensionSet().Has("upak") {
		t.Fatal("configured extension not loaded")
	}
	if s.Watch.Debounce != 5*time.Second {
		t.Fatalf("debounce: got %v", s.Watch.Debounce)
	}
	// Unspecified fields fall back to defaults.
	if s.SiblingExtension != "uexp" {
		t.Fatalf("sibling extension default: got %q", s.SiblingExtension)
	}
	if s.Marker != "index: " {
		t.Fatalf("marker default: got %q", s.Marker)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("CATALOG_PATH", "/tmp/catalog.db")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("catalog:\n  path: ${CATALOG_PATH}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Catalog.Path != "/tmp/catalog.db" {
		t.Fatalf("env expansion: got %q", s.Catalog.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
