package uasset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	ierrors "git.home.luguber.info/inful/assetindex/internal/errors"
	"git.home.luguber.info/inful/assetindex/internal/logfields"
)

// Provider loads Unreal package files into object graphs. It implements
// asset.Provider; nothing outside this package depends on the container
// format.
type Provider struct {
	siblingExtension string // companion payload extension, without dot
}

// NewProvider creates a provider merging sibling files with the given
// extension (conventionally "uexp").
func NewProvider(siblingExtension string) *Provider {
	return &Provider{siblingExtension: siblingExtension}
}

// Load parses the package at path. A sibling companion file with the same
// stem is consulted when present; its absence is not an error. Any parse
// failure yields a provider-category error and no graph.
func (p *Provider) Load(path string) (*asset.ObjectGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierrors.Wrap(err, ierrors.CategoryConfig, ierrors.SeverityError, "cannot read source file").WithContext("path", path)
	}

	graph, span, err := parse(data)
	if err != nil {
		return nil, ierrors.ProviderError(err, "invalid package file").WithContext("path", path)
	}
	graph.Name = stem(path)

	// The companion file carries export payloads split out of the header.
	// Payload offsets past the header must land inside it when it exists.
	siblingPath := strings.TrimSuffix(path, filepath.Ext(path)) + "." + p.siblingExtension
	if fi, statErr := os.Stat(siblingPath); statErr == nil {
		total := int64(span) + fi.Size()
		for i := range graph.Exports {
			ex := &graph.Exports[i]
			if ex.SerialSize > 0 && ex.SerialOffset+ex.SerialSize > total {
				return nil, ierrors.ProviderError(
					fmt.Errorf("export %d payload exceeds package and companion size", i+1),
					"invalid package file").WithContext("path", path)
			}
		}
		slog.Debug("Merged companion file", logfields.Path(siblingPath))
	}

	return graph, nil
}

// parse decodes the summary and all three tables. It returns the graph and
// the declared header span for companion-size validation.
func parse(data []byte) (*asset.ObjectGraph, int32, error) {
	r := newReader(data)
	s, err := parseSummary(r)
	if err != nil {
		return nil, 0, err
	}

	names, err := parseNames(r, s)
	if err != nil {
		return nil, 0, err
	}

	graph := &asset.ObjectGraph{}

	r.seek(int(s.importOffset))
	graph.Imports = make([]asset.Import, 0, s.importCount)
	for i := int32(0); i < s.importCount; i++ {
		im := asset.Import{
			ClassPackage: fname(r, names),
			ClassName:    fname(r, names),
			OuterIndex:   asset.ObjectIndex(r.i32()),
			ObjectName:   fname(r, names),
		}
		if s.fileVersion >= verNonOuterPackageImport && !s.filterEditorOnly() {
			fname(r, names) // package name, unused
		}
		graph.Imports = append(graph.Imports, im)
	}
	if r.err != nil {
		return nil, 0, fmt.Errorf("import table: %w", r.err)
	}

	r.seek(int(s.exportOffset))
	graph.Exports = make([]asset.Export, 0, s.exportCount)
	for i := int32(0); i < s.exportCount; i++ {
		var ex asset.Export
		ex.ClassIndex = asset.ObjectIndex(r.i32())
		ex.SuperIndex = asset.ObjectIndex(r.i32())
		if s.fileVersion >= verTemplateIndexInCookedExports {
			ex.TemplateIndex = asset.ObjectIndex(r.i32())
		}
		ex.OuterIndex = asset.ObjectIndex(r.i32())
		ex.ObjectName = fname(r, names)
		ex.ObjectFlags = r.u32()
		ex.SerialSize = r.i64()
		ex.SerialOffset = r.i64()
		ex.ForcedExport = r.b32()
		ex.NotForClient = r.b32()
		ex.NotForServer = r.b32()
		r.skip(16) // package guid
		r.u32()    // export package flags
		if s.fileVersion >= verLoadForEditorGame {
			r.b32() // not always loaded for editor game
		}
		if s.fileVersion >= verCookedAssetsInEditorSupport {
			ex.IsAsset = r.b32()
		}
		if s.fileVersion >= verPreloadDependenciesInCookedExports {
			r.skip(5 * 4) // preload dependency indices
		}
		graph.Exports = append(graph.Exports, ex)
	}
	if r.err != nil {
		return nil, 0, fmt.Errorf("export table: %w", r.err)
	}

	return graph, s.totalHeaderSize, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
