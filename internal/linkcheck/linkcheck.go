// Package linkcheck validates a generated site: every relative anchor in
// every page must resolve to an existing file or directory inside the tree.
package linkcheck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link is one extracted anchor.
type Link struct {
	Href string
	Text string
}

// Issue is a link whose target does not exist.
type Issue struct {
	Page string // page path relative to the site root
	Href string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: broken link %q", i.Page, i.Href)
}

// ExtractLinks parses HTML and returns all anchor hrefs in document order.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					links = append(links, Link{Href: attr.Val, Text: textContent(n)})
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// VerifySite walks every .html file under root and checks each relative link
// against the filesystem. A link to a directory counts as resolved when the
// directory exists (its index.html is the page convention). Absolute URLs
// and fragments are ignored.
func VerifySite(root string) ([]Issue, error) {
	var issues []Issue

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".html") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		links, parseErr := ExtractLinks(f)
		_ = f.Close()
		if parseErr != nil {
			return fmt.Errorf("%s: %w", path, parseErr)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		pageDir := filepath.Dir(path)
		for _, link := range links {
			if link.Href == "" || strings.HasPrefix(link.Href, "#") || strings.Contains(link.Href, "://") {
				continue
			}
			target := filepath.Join(pageDir, filepath.FromSlash(link.Href))
			if _, statErr := os.Stat(target); statErr != nil {
				issues = append(issues, Issue{Page: rel, Href: link.Href})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
