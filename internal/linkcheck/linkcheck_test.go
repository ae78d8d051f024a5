package linkcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	"git.home.luguber.info/inful/assetindex/internal/scan"
	"git.home.luguber.info/inful/assetindex/internal/site"
)

func TestExtractLinks(t *testing.T) {
	page := `<style>a{}</style><h1><a href="..">.</a>/foo/</h1>
<ul><li><a href="1">1 (Cube)</a></li><li><a href="2">2 (Mesh)</a></li></ul>
<a>no href</a>`

	links, err := ExtractLinks(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 3 {
		t.Fatalf("got %d links: %v", len(links), links)
	}
	if links[0].Href != ".." || links[1].Href != "1" || links[2].Href != "2" {
		t.Fatalf("hrefs: %v", links)
	}
	if links[1].Text != "1 (Cube)" {
		t.Fatalf("text: %q", links[1].Text)
	}
}

func TestVerifySiteOnGeneratedTree(t *testing.T) {
	g := &asset.ObjectGraph{
		Name: "foo",
		Exports: []asset.Export{
			{ObjectName: "Cube", ClassIndex: -1, OuterIndex: 2},
			{ObjectName: "Mesh"},
		},
		Imports: []asset.Import{
			{ObjectName: "Engine"},
		},
	}

	dir := filepath.Join(t.TempDir(), "foo")
	gen := site.NewGenerator(scan.New(scan.DefaultMarker))
	if err := gen.GenerateSite(g, dir, ""); err != nil {
		t.Fatal(err)
	}

	issues, err := VerifySite(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Fatalf("generated site has broken links: %v", issues)
	}
}

func TestVerifySiteReportsBrokenLinks(t *testing.T) {
	dir := t.TempDir()
	page := `<a href="missing/page">gone</a><a href="https://example.com/x">external ok</a><a href="#frag">fragment ok</a>`
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	issues, err := VerifySite(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if issues[0].Href != "missing/page" || issues[0].Page != "index.html" {
		t.Fatalf("issue: %+v", issues[0])
	}
	if !strings.Contains(issues[0].String(), "broken link") {
		t.Fatalf("issue string: %s", issues[0])
	}
}
