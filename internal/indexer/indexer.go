// Package indexer walks filesystem subtrees, finds eligible source files, and
// drives site generation for each without ever re-indexing the output
// directories it creates.
package indexer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	"git.home.luguber.info/inful/assetindex/internal/catalog"
	"git.home.luguber.info/inful/assetindex/internal/config"
	ierrors "git.home.luguber.info/inful/assetindex/internal/errors"
	"git.home.luguber.info/inful/assetindex/internal/logfields"
	"git.home.luguber.info/inful/assetindex/internal/metrics"
	"git.home.luguber.info/inful/assetindex/internal/site"
	"git.home.luguber.info/inful/assetindex/internal/util/sets"
)

// Indexer ties the provider, site generator, and optional catalog together.
type Indexer struct {
	extensions  sets.Set[string]
	provider    asset.Provider
	sites       *site.Generator
	catalog     *catalog.Catalog
	recorder    metrics.Recorder
	incremental bool
}

// New creates an indexer. The extension set comes from settings and is never
// mutated afterward.
func New(cfg *config.Settings, provider asset.Provider, gen *site.Generator) *Indexer {
	return &Indexer{
		extensions: cfg.ExtensionSet(),
		provider:   provider,
		sites:      gen,
		recorder:   metrics.NoopRecorder{},
	}
}

// SetCatalog attaches an index catalog (optional). Returns the indexer for chaining.
func (ix *Indexer) SetCatalog(c *catalog.Catalog) *Indexer {
	ix.catalog = c
	return ix
}

// SetIncremental enables skipping assets whose catalog hash is unchanged.
// Requires a catalog to have any effect.
func (ix *Indexer) SetIncremental(on bool) *Indexer {
	ix.incremental = on
	return ix
}

// SetRecorder injects a metrics recorder (optional). Returns the indexer for chaining.
func (ix *Indexer) SetRecorder(r metrics.Recorder) *Indexer {
	if r == nil {
		ix.recorder = metrics.NoopRecorder{}
		return ix
	}
	ix.recorder = r
	return ix
}

// Index treats path as a file or a directory and indexes accordingly.
func (ix *Indexer) Index(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ierrors.Wrap(err, ierrors.CategoryConfig, ierrors.SeverityError, "path does not exist").WithContext("path", path)
	}
	if info.IsDir() {
		return ix.IndexDir(path)
	}
	return ix.IndexFile(path)
}

// IndexFile generates the site for one source file. The output tree lives in
// a directory named after the file's stem, next to the file.
func (ix *Indexer) IndexFile(path string) error {
	slog.Info("Indexing asset file", logfields.Path(path))

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return ierrors.ConfigError("file has no extension").WithContext("path", path)
	}
	if !ix.extensions.Has(ext) {
		return ierrors.ConfigError(fmt.Sprintf("unsupported extension %q", ext)).WithContext("path", path)
	}

	var contentHash string
	if ix.catalog != nil {
		unchanged, hash, err := ix.catalog.Unchanged(path)
		if err != nil {
			slog.Warn("Catalog check failed", logfields.Path(path), logfields.Error(err))
		} else {
			contentHash = hash
			if ix.incremental && unchanged {
				slog.Info("Asset unchanged, skipping", logfields.Path(path))
				ix.recorder.IncCatalogSkip()
				return nil
			}
		}
	}

	start := time.Now()
	graph, err := ix.provider.Load(path)
	if err != nil {
		ix.recorder.ObserveIndexDuration(time.Since(start), false)
		ix.recorder.IncAssetResult(false)
		return err
	}

	outDir := strings.TrimSuffix(path, filepath.Ext(path))

	notes, err := site.RenderNotes(outDir + ".md")
	if err != nil {
		// Notes are decoration; a bad notes file never blocks the site.
		slog.Warn("Skipping notes file", logfields.Path(outDir+".md"), logfields.Error(err))
		notes = ""
	}

	genErr := ix.sites.GenerateSite(graph, outDir, notes)
	ix.recorder.ObserveIndexDuration(time.Since(start), genErr == nil)
	ix.recorder.IncAssetResult(genErr == nil)
	if genErr != nil {
		return genErr
	}

	if ix.catalog != nil && contentHash != "" {
		entry := catalog.Entry{
			Path:      path,
			Hash:      contentHash,
			Exports:   len(graph.Exports),
			Imports:   len(graph.Imports),
			IndexedAt: time.Now(),
		}
		if err := ix.catalog.Record(entry); err != nil {
			slog.Warn("Catalog update failed", logfields.Path(path), logfields.Error(err))
		}
	}
	return nil
}

// IndexDir indexes every recognized file directly inside dir, then recurses
// into subdirectories. The walk is two-phase: pass one indexes files and
// claims each file's would-be output directory (stem path); pass two recurses
// only into unclaimed subdirectories. Without the claim set the recursion
// would descend into the sites just generated, since a site for X.uasset
// lives at X/ alongside it.
func (ix *Indexer) IndexDir(dir string) error {
	slog.Info("Indexing directory", logfields.Dir(dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityError, "cannot read directory").WithContext("dir", dir)
	}

	claimed := sets.New[string]()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ext := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
		if ext == "" {
			// An extension-less file is indistinguishable from a
			// misconfiguration if dropped silently; skip it visibly.
			slog.Warn("Skipping file", logfields.Path(path), logfields.Reason("no extension"))
			continue
		}
		if !ix.extensions.Has(ext) {
			continue
		}
		if err := ix.IndexFile(path); err != nil {
			slog.Error("Indexing failed", logfields.Path(path), logfields.Error(err))
		}
		claimed.Add(strings.TrimSuffix(path, filepath.Ext(path)))
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if claimed.Has(path) {
			continue
		}
		if err := ix.IndexDir(path); err != nil {
			slog.Error("Indexing failed", logfields.Dir(path), logfields.Error(err))
		}
	}
	return nil
}
