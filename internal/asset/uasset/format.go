// Package uasset parses the header tables of Unreal Engine package files
// (.uasset/.umap): the file summary, name table, import table, and export
// table. It deliberately stops there; export payloads are never interpreted.
package uasset

import "fmt"

// packageFileTag identifies a package file (little-endian on disk).
const packageFileTag = 0x9E2A83C1

// Serialization versions that gate fields in the summary and tables.
// Values are the engine's object version enum.
const (
	verSerializeTextInPackages            = 459
	verLoadForEditorGame                  = 365
	verCookedAssetsInEditorSupport        = 485
	verNameHashesSerialized               = 504
	verPreloadDependenciesInCookedExports = 507
	verTemplateIndexInCookedExports       = 508
	ver64BitExportMapSerialSizes          = 511
	verAddedPackageSummaryLocalizationID  = 516
	verNonOuterPackageImport              = 520
)

// Supported file-version window. Packages outside it are a provider error,
// never a partial graph.
const (
	minSupportedFileVersion = ver64BitExportMapSerialSizes
	maxSupportedFileVersion = 524
)

// pkgFilterEditorOnly marks a package cooked without editor-only data, which
// changes what the summary and import entries serialize.
const pkgFilterEditorOnly = 0x80000000

// summary is the subset of the package file summary needed to locate the
// name, import, and export tables.
type summary struct {
	fileVersion     int32
	packageFlags    uint32
	totalHeaderSize int32
	folderName      string
	nameCount       int32
	nameOffset      int32
	exportCount     int32
	exportOffset    int32
	importCount     int32
	importOffset    int32
}

func (s *summary) filterEditorOnly() bool {
	return s.packageFlags&pkgFilterEditorOnly != 0
}

func parseSummary(r *reader) (*summary, error) {
	if tag := r.u32(); r.err == nil && tag != packageFileTag {
		return nil, fmt.Errorf("not a package file (tag 0x%08x)", tag)
	}

	legacyVersion := r.i32()
	if r.err == nil && (legacyVersion > -6 || legacyVersion < -8) {
		return nil, fmt.Errorf("unsupported legacy file version %d", legacyVersion)
	}
	r.i32() // legacy UE3 version, always discarded

	s := &summary{}
	s.fileVersion = r.i32()
	if legacyVersion <= -8 {
		if ue5 := r.i32(); r.err == nil && ue5 != 0 {
			return nil, fmt.Errorf("UE5 object version %d not supported", ue5)
		}
	}
	r.i32() // licensee version

	if r.err == nil && (s.fileVersion < minSupportedFileVersion || s.fileVersion > maxSupportedFileVersion) {
		if s.fileVersion == 0 {
			return nil, fmt.Errorf("unversioned package not supported")
		}
		return nil, fmt.Errorf("unsupported file version %d (supported: %d..%d)",
			s.fileVersion, minSupportedFileVersion, maxSupportedFileVersion)
	}

	// Custom versions: GUID + version per entry, not needed for the tables.
	customVersionCount := r.i32()
	if r.err == nil && (customVersionCount < 0 || customVersionCount > 1<<16) {
		return nil, fmt.Errorf("implausible custom version count %d", customVersionCount)
	}
	r.skip(int(customVersionCount) * 20)

	s.totalHeaderSize = r.i32()
	s.folderName = r.fstring()
	s.packageFlags = r.u32()
	s.nameCount = r.i32()
	s.nameOffset = r.i32()
	if s.fileVersion >= verAddedPackageSummaryLocalizationID && !s.filterEditorOnly() {
		r.fstring() // localization id
	}
	if s.fileVersion >= verSerializeTextInPackages {
		r.i32() // gatherable text data count
		r.i32() // gatherable text data offset
	}
	s.exportCount = r.i32()
	s.exportOffset = r.i32()
	s.importCount = r.i32()
	s.importOffset = r.i32()
	r.i32() // depends offset

	if r.err != nil {
		return nil, r.err
	}
	if s.nameCount < 0 || s.exportCount < 0 || s.importCount < 0 {
		return nil, fmt.Errorf("negative table count in summary")
	}
	return s, nil
}

// parseNames reads the name table the import/export tables index into.
func parseNames(r *reader, s *summary) ([]string, error) {
	r.seek(int(s.nameOffset))
	names := make([]string, 0, s.nameCount)
	for i := int32(0); i < s.nameCount; i++ {
		names = append(names, r.fstring())
		if s.fileVersion >= verNameHashesSerialized {
			r.u16() // non-case-preserving hash
			r.u16() // case-preserving hash
		}
	}
	if r.err != nil {
		return nil, fmt.Errorf("name table: %w", r.err)
	}
	return names, nil
}

// fname reads a serialized name reference: index into the name table plus an
// instance number (0 = plain name, N>0 renders as Name_N-1).
func fname(r *reader, names []string) string {
	idx := r.i32()
	number := r.i32()
	if r.err != nil {
		return ""
	}
	if idx < 0 || int(idx) >= len(names) {
		r.fail("name index %d out of range (%d names)", idx, len(names))
		return ""
	}
	if number > 0 {
		return fmt.Sprintf("%s_%d", names[idx], number-1)
	}
	return names[idx]
}
