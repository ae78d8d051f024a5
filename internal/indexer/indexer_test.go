package indexer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	"git.home.luguber.info/inful/assetindex/internal/catalog"
	"git.home.luguber.info/inful/assetindex/internal/config"
	ierrors "git.home.luguber.info/inful/assetindex/internal/errors"
	"git.home.luguber.info/inful/assetindex/internal/scan"
	"git.home.luguber.info/inful/assetindex/internal/site"
)

// fakeProvider returns a small fixed graph for every path and records which
// paths it was asked to load.
type fakeProvider struct {
	loaded []string
	fail   bool
}

func (p *fakeProvider) Load(path string) (*asset.ObjectGraph, error) {
	if p.fail {
		return nil, ierrors.ProviderError(errors.New("corrupt"), "invalid package file")
	}
	p.loaded = append(p.loaded, path)
	base := filepath.Base(path)
	return &asset.ObjectGraph{
		Name:    base[:len(base)-len(filepath.Ext(base))],
		Exports: []asset.Export{{ObjectName: "Root", ClassIndex: -1}},
		Imports: []asset.Import{{ObjectName: "Engine"}},
	}, nil
}

func newTestIndexer(p asset.Provider) *Indexer {
	gen := site.NewGenerator(scan.New(scan.DefaultMarker))
	return New(config.Default(), p, gen)
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexFileGeneratesSite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "foo.uasset")
	touch(t, src)

	p := &fakeProvider{}
	if err := newTestIndexer(p).Index(src); err != nil {
		t.Fatalf("Index: %v", err)
	}

	for _, page := range []string{
		"foo/index.html",
		"foo/exports/index.html",
		"foo/exports/1/index.html",
		"foo/imports/1/index.html",
	} {
		if _, err := os.Stat(filepath.Join(dir, page)); err != nil {
			t.Errorf("missing %s: %v", page, err)
		}
	}
}

func TestIndexFileRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "foo.txt")
	touch(t, src)

	err := newTestIndexer(&fakeProvider{}).Index(src)
	if err == nil {
		t.Fatal("expected error")
	}
	if !ierrors.IsCategory(err, ierrors.CategoryConfig) {
		t.Fatalf("category: %s", ierrors.GetCategory(err))
	}
}

func TestIndexMissingPath(t *testing.T) {
	err := newTestIndexer(&fakeProvider{}).Index(filepath.Join(t.TempDir(), "nope.uasset"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !ierrors.IsCategory(err, ierrors.CategoryConfig) {
		t.Fatalf("category: %s", ierrors.GetCategory(err))
	}
}

func TestIndexDirSkipsOwnOutput(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "foo.uasset"))
	touch(t, filepath.Join(dir, "bar.umap"))
	touch(t, filepath.Join(dir, "ignore.txt"))

	// Pre-existing directory that shares the stem of foo.uasset; after pass
	// one it is claimed and its contents must not be treated as sources.
	touch(t, filepath.Join(dir, "foo", "inner.uasset"))

	// Unrelated subdirectory: recursed into.
	touch(t, filepath.Join(dir, "sub", "baz.uasset"))

	p := &fakeProvider{}
	if err := newTestIndexer(p).Index(dir); err != nil {
		t.Fatalf("Index: %v", err)
	}

	loaded := map[string]bool{}
	for _, path := range p.loaded {
		rel, _ := filepath.Rel(dir, path)
		loaded[rel] = true
	}

	for _, want := range []string{"foo.uasset", "bar.umap", filepath.Join("sub", "baz.uasset")} {
		if !loaded[want] {
			t.Errorf("%s was not indexed (loaded: %v)", want, p.loaded)
		}
	}
	if loaded[filepath.Join("foo", "inner.uasset")] {
		t.Error("claimed output directory was re-indexed")
	}
	if len(loaded) != 3 {
		t.Errorf("unexpected loads: %v", p.loaded)
	}
}

func TestIndexDirRecursesIntoGeneratedSiblingsOnlyOnce(t *testing.T) {
	// The site generated for sub/baz.uasset lands at sub/baz/ during pass
	// one of the walk over sub/; it must not be picked up by pass two.
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "sub", "baz.uasset"))

	p := &fakeProvider{}
	if err := newTestIndexer(p).Index(dir); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(p.loaded) != 1 {
		t.Fatalf("expected exactly one load, got %v", p.loaded)
	}
}

func TestIndexDirContinuesPastProviderFailures(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "bad.uasset"))
	touch(t, filepath.Join(dir, "sub", "good.uasset"))

	// All loads fail; the walk must still visit everything without erroring
	// at the directory level.
	p := &fakeProvider{fail: true}
	if err := newTestIndexer(p).Index(dir); err != nil {
		t.Fatalf("Index should not fail the whole walk: %v", err)
	}
}

func TestIncrementalSkipsUnchangedAssets(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "foo.uasset")
	touch(t, src)

	cat, err := catalog.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	p := &fakeProvider{}
	ix := newTestIndexer(p).SetCatalog(cat).SetIncremental(true)

	if err := ix.Index(src); err != nil {
		t.Fatalf("first index: %v", err)
	}
	if err := ix.Index(src); err != nil {
		t.Fatalf("second index: %v", err)
	}
	if len(p.loaded) != 1 {
		t.Fatalf("unchanged asset should be skipped, loads: %v", p.loaded)
	}

	// Touch the content; the third run re-indexes.
	if err := os.WriteFile(src, []byte("different"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ix.Index(src); err != nil {
		t.Fatalf("third index: %v", err)
	}
	if len(p.loaded) != 2 {
		t.Fatalf("changed asset should re-index, loads: %v", p.loaded)
	}

	entry, err := cat.Lookup(src)
	if err != nil || entry == nil {
		t.Fatalf("catalog entry missing: %v", err)
	}
	if entry.Exports != 1 || entry.Imports != 1 {
		t.Fatalf("catalog counts: %+v", entry)
	}
	if time.Since(entry.IndexedAt) > time.Minute {
		t.Fatalf("catalog timestamp stale: %v", entry.IndexedAt)
	}
}

func TestSiblingNotesRenderedIntoRootPage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "foo.uasset")
	touch(t, src)
	if err := os.WriteFile(filepath.Join(dir, "foo.md"), []byte("# Lore\n\nSome context.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := newTestIndexer(&fakeProvider{}).Index(src); err != nil {
		t.Fatalf("Index: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "foo", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	if !strings.Contains(page, "<h1>Lore</h1>") || !strings.Contains(page, "Some context.") {
		t.Errorf("notes not rendered into root page:\n%s", page)
	}
}
