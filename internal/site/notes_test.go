package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderNotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.md")
	if err := os.WriteFile(path, []byte("# Title\n\nBody with *emphasis*.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	html, err := RenderNotes(path)
	if err != nil {
		t.Fatalf("RenderNotes: %v", err)
	}
	if !strings.Contains(html, "<h1>Title</h1>") || !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("unexpected rendering:\n%s", html)
	}
}

func TestRenderNotesMissingFileIsNotAnError(t *testing.T) {
	html, err := RenderNotes(filepath.Join(t.TempDir(), "absent.md"))
	if err != nil {
		t.Fatalf("missing notes file must not error: %v", err)
	}
	if html != "" {
		t.Fatalf("expected empty notes, got %q", html)
	}
}
