// Package site turns one object graph into a statically-linked HTML tree:
// a root index, per-table listings, and one detail page per record, all
// joined by relative links.
package site

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	ierrors "git.home.luguber.info/inful/assetindex/internal/errors"
	"git.home.luguber.info/inful/assetindex/internal/logfields"
	"git.home.luguber.info/inful/assetindex/internal/metrics"
	"git.home.luguber.info/inful/assetindex/internal/scan"
)

// Generator renders object graphs into site trees. It is pure over its
// inputs: generating the same graph into the same directory twice produces
// byte-identical output.
type Generator struct {
	scanner  *scan.Scanner
	recorder metrics.Recorder
}

// NewGenerator creates a site generator using the given reference scanner.
func NewGenerator(sc *scan.Scanner) *Generator {
	return &Generator{scanner: sc, recorder: metrics.NoopRecorder{}}
}

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// GenerateSite writes the full page hierarchy for graph under baseDir:
//
//	baseDir/index.html
//	baseDir/exports/index.html, baseDir/exports/<n>/index.html for n=1..N
//	baseDir/imports/index.html, baseDir/imports/<n>/index.html for n=1..M
//
// notes is optional pre-rendered HTML embedded into the root page. A failure
// on one record leaves that page missing and continues with its siblings;
// all such failures are joined into the returned error. Pre-existing
// unrelated files in the output directories are left alone.
func (g *Generator) GenerateSite(graph *asset.ObjectGraph, baseDir, notes string) error {
	exportsDir := filepath.Join(baseDir, string(TableExports))
	importsDir := filepath.Join(baseDir, string(TableImports))
	for _, dir := range []string{baseDir, exportsDir, importsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityError, "failed to create site directory").WithContext("dir", dir)
		}
	}

	pages := 0
	var pageErrs []error
	record := func(err error) {
		if err == nil {
			pages++
			return
		}
		if ierrors.IsCategory(err, ierrors.CategoryContract) {
			g.recorder.IncContractViolation()
		}
		slog.Error("Page generation failed", logfields.Asset(graph.Name), logfields.Error(err))
		pageErrs = append(pageErrs, err)
	}

	record(g.writeRootPage(graph, baseDir, notes))

	exportNames := make([]string, len(graph.Exports))
	for i := range graph.Exports {
		exportNames[i] = graph.Exports[i].ObjectName
	}
	record(g.writeListingPage(graph, TableExports, exportNames, exportsDir))

	importNames := make([]string, len(graph.Imports))
	for i := range graph.Imports {
		importNames[i] = graph.Imports[i].ObjectName
	}
	record(g.writeListingPage(graph, TableImports, importNames, importsDir))

	for i := range graph.Exports {
		dir := filepath.Join(exportsDir, strconv.Itoa(i+1))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			record(ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityError, "failed to create export directory").WithContext("dir", dir))
			continue
		}
		record(g.writeDetailPage(graph, TableExports, i+1, graph.Exports[i].Render(), dir))
	}

	for i := range graph.Imports {
		dir := filepath.Join(importsDir, strconv.Itoa(i+1))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			record(ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityError, "failed to create import directory").WithContext("dir", dir))
			continue
		}
		record(g.writeDetailPage(graph, TableImports, i+1, graph.Imports[i].Render(), dir))
	}

	g.recorder.AddPagesWritten(pages)
	slog.Info("Site generated",
		logfields.Asset(graph.Name),
		logfields.Dir(baseDir),
		logfields.Exports(len(graph.Exports)),
		logfields.Imports(len(graph.Imports)),
		logfields.Pages(pages))

	return errors.Join(pageErrs...)
}
