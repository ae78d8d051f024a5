// Package asset defines the object graph model shared by the site generator
// and the concrete package-file providers. The export and import tables are
// disjoint address spaces: positive 1-based integers address exports, negative
// integers address imports by magnitude. Zero means "no reference".
package asset

import (
	"fmt"
	"strings"
)

// ObjectIndex is a signed reference into the package tables.
type ObjectIndex int32

// IsNull reports whether the index references nothing.
func (i ObjectIndex) IsNull() bool { return i == 0 }

func (i ObjectIndex) String() string {
	return fmt.Sprintf("ObjectIndex { index: %d }", int32(i))
}

// ObjectGraph holds one source file's export and import tables in their
// native serialized order. Order is load-bearing: index references resolve by
// position and listings must never re-sort.
type ObjectGraph struct {
	Name    string // source file stem
	Exports []Export
	Imports []Import
}

// Import is an entry referencing an object external to the package.
type Import struct {
	ClassPackage string
	ClassName    string
	OuterIndex   ObjectIndex
	ObjectName   string
}

// Render produces the import's debug dump. Object references render through
// ObjectIndex so the reference scanner can locate and rewrite them.
func (im *Import) Render() string {
	var b strings.Builder
	b.WriteString("ObjectImport {\n")
	fmt.Fprintf(&b, "    class_package: %q,\n", im.ClassPackage)
	fmt.Fprintf(&b, "    class_name: %q,\n", im.ClassName)
	fmt.Fprintf(&b, "    outer_index: %s,\n", im.OuterIndex)
	fmt.Fprintf(&b, "    object_name: %q,\n", im.ObjectName)
	b.WriteString("}")
	return b.String()
}

// Export is an entry owned by the package itself.
type Export struct {
	ObjectName    string
	ClassIndex    ObjectIndex
	SuperIndex    ObjectIndex
	TemplateIndex ObjectIndex
	OuterIndex    ObjectIndex
	ObjectFlags   uint32
	SerialSize    int64
	SerialOffset  int64
	ForcedExport  bool
	NotForClient  bool
	NotForServer  bool
	IsAsset       bool
}

// Render produces the export's debug dump.
func (ex *Export) Render() string {
	var b strings.Builder
	b.WriteString("ObjectExport {\n")
	fmt.Fprintf(&b, "    object_name: %q,\n", ex.ObjectName)
	fmt.Fprintf(&b, "    class_index: %s,\n", ex.ClassIndex)
	fmt.Fprintf(&b, "    super_index: %s,\n", ex.SuperIndex)
	fmt.Fprintf(&b, "    template_index: %s,\n", ex.TemplateIndex)
	fmt.Fprintf(&b, "    outer_index: %s,\n", ex.OuterIndex)
	fmt.Fprintf(&b, "    object_flags: 0x%08x,\n", ex.ObjectFlags)
	fmt.Fprintf(&b, "    serial_size: %d,\n", ex.SerialSize)
	fmt.Fprintf(&b, "    serial_offset: %d,\n", ex.SerialOffset)
	fmt.Fprintf(&b, "    forced_export: %t,\n", ex.ForcedExport)
	fmt.Fprintf(&b, "    not_for_client: %t,\n", ex.NotForClient)
	fmt.Fprintf(&b, "    not_for_server: %t,\n", ex.NotForServer)
	fmt.Fprintf(&b, "    is_asset: %t,\n", ex.IsAsset)
	b.WriteString("}")
	return b.String()
}
