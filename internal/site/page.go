package site

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	ierrors "git.home.luguber.info/inful/assetindex/internal/errors"
)

// globalStyle is the shared style header written at the top of every page.
const globalStyle = "<style>a{text-decoration:none}a:visited{color:darkmagenta}</style>"

// writeDetailPage renders one record's page: style header, breadcrumb trail,
// and the record dump with every index reference rewritten into a relative
// anchor. pos is 1-based. The page path is <dir>/index.html.
//
// If any reference in the dump fails to resolve, the whole page is abandoned
// (no file written) and the contract error returned; sibling records are
// unaffected.
func (g *Generator) writeDetailPage(graph *asset.ObjectGraph, table Table, pos int, dump, dir string) error {
	// Escape first: the dump is record text, not markup. Escaping cannot
	// create or destroy tokens (no escape sequence contains the marker).
	escaped := html.EscapeString(dump)

	var resolveErrs []error
	linked := g.scanner.Rewrite(escaped, func(i int) string {
		ref, err := Resolve(graph, i)
		if err != nil {
			resolveErrs = append(resolveErrs, err)
			return ""
		}
		// Detail pages sit three levels below the asset root, two below
		// their own table listing.
		return fmt.Sprintf(`<a href="../../%s/%d">%d (%s)</a>`, ref.Table, ref.Position, i, html.EscapeString(ref.Name))
	})
	if len(resolveErrs) > 0 {
		return fmt.Errorf("rendering %s/%d: %w", table, pos, errors.Join(resolveErrs...))
	}

	var b strings.Builder
	b.WriteString(globalStyle)
	fmt.Fprintf(&b, `<h1>
<a href="../../..">.</a>/
<a href="../..">%s</a>/
<a href="..">%s</a>/
%d
</h1>`, html.EscapeString(graph.Name), table, pos)
	fmt.Fprintf(&b, `<span style="white-space-collapse:preserve;font-family:monospace">%s</span>`, linked)

	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityError, "failed to write detail page").WithContext("path", path)
	}
	return nil
}

// writeListingPage renders one table's listing: an ordered list of links
// 1..N with record names, in native table order.
func (g *Generator) writeListingPage(graph *asset.ObjectGraph, table Table, names []string, dir string) error {
	var b strings.Builder
	b.WriteString(globalStyle)
	fmt.Fprintf(&b, `<h1>
<a href="../..">.</a>/
<a href="..">%s</a>/
%s
</h1>`, html.EscapeString(graph.Name), table)
	b.WriteString("<ul>")
	for i, name := range names {
		fmt.Fprintf(&b, `<li><a href="%d">%d (%s)</a></li>`, i+1, i+1, html.EscapeString(name))
	}
	b.WriteString("</ul>")

	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityError, "failed to write listing page").WithContext("path", path)
	}
	return nil
}

// writeRootPage renders the asset's root index linking to both table
// listings, with optional pre-rendered notes HTML appended.
func (g *Generator) writeRootPage(graph *asset.ObjectGraph, dir, notes string) error {
	var b strings.Builder
	b.WriteString(globalStyle)
	fmt.Fprintf(&b, `<h1>
<a href="..">.</a>/
%s/
</h1>
<ul>
<li><a href="imports">imports</a></li>
<li><a href="exports">exports</a></li>
</ul>`, html.EscapeString(graph.Name))
	if notes != "" {
		fmt.Fprintf(&b, "<hr>%s", notes)
	}

	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityError, "failed to write root page").WithContext("path", path)
	}
	return nil
}
