package site

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
)

// RenderNotes converts a sibling Markdown notes file into HTML for embedding
// in an asset's root page. Returns "" with no error when the file does not
// exist; its presence is optional.
func RenderNotes(mdPath string) (string, error) {
	src, err := os.ReadFile(mdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read notes file %s: %w", mdPath, err)
	}

	var buf bytes.Buffer
	if err := goldmark.New().Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render notes file %s: %w", mdPath, err)
	}
	return buf.String(), nil
}
