package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyAsset    = "asset"
	KeyPath     = "path"
	KeyDir      = "dir"
	KeyExports  = "exports"
	KeyImports  = "imports"
	KeyPages    = "pages"
	KeyTable    = "table"
	KeyPosition = "position"
	KeyJobID    = "job_id"
	KeyReason   = "reason"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Asset(name string) slog.Attr { return slog.String(KeyAsset, name) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr      { return slog.String(KeyDir, d) }
func Exports(n int) slog.Attr     { return slog.Int(KeyExports, n) }
func Imports(n int) slog.Attr     { return slog.Int(KeyImports, n) }
func Pages(n int) slog.Attr       { return slog.Int(KeyPages, n) }
func Table(t string) slog.Attr    { return slog.String(KeyTable, t) }
func Position(n int) slog.Attr    { return slog.Int(KeyPosition, n) }
func JobID(id string) slog.Attr   { return slog.String(KeyJobID, id) }
func Reason(r string) slog.Attr   { return slog.String(KeyReason, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
