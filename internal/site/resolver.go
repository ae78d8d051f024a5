package site

import (
	"fmt"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	ierrors "git.home.luguber.info/inful/assetindex/internal/errors"
)

// Table names one of the two disjoint record tables.
type Table string

const (
	TableExports Table = "exports"
	TableImports Table = "imports"
)

// Ref is a resolved record identity: which table, the 1-based position within
// it, and the record's display name.
type Ref struct {
	Table    Table
	Position int
	Name     string
}

// Resolve maps a signed index reference onto a record. Positive i selects
// exports[i-1], negative i selects imports[(-i)-1].
//
// A zero index can never reach this function through a correct scanner (the
// token grammar excludes it); seeing one is a contract violation, not a data
// error, and is surfaced as a fatal contract error rather than ignored. An
// out-of-range magnitude means the upstream provider produced a reference to
// a record that does not exist; it is surfaced the same way so the caller
// aborts that record's render instead of emitting a broken link.
func Resolve(g *asset.ObjectGraph, i int) (Ref, error) {
	switch {
	case i == 0:
		return Ref{}, ierrors.Contract("zero index reference reached the resolver")
	case i > 0:
		if i > len(g.Exports) {
			return Ref{}, ierrors.Contract(fmt.Sprintf("export reference %d out of range (table has %d entries)", i, len(g.Exports)))
		}
		return Ref{Table: TableExports, Position: i, Name: g.Exports[i-1].ObjectName}, nil
	default:
		pos := -i
		if pos > len(g.Imports) {
			return Ref{}, ierrors.Contract(fmt.Sprintf("import reference %d out of range (table has %d entries)", i, len(g.Imports)))
		}
		return Ref{Table: TableImports, Position: pos, Name: g.Imports[pos-1].ObjectName}, nil
	}
}
