// Package scan locates index reference tokens inside record dump text and
// rewrites their numeric portion through a caller-supplied transform. All text
// outside matched tokens is copied through byte for byte.
package scan

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultMarker is the literal label preceding an index token in record dumps.
const DefaultMarker = "index: "

// Scanner holds the compiled token pattern. Construct once at startup and
// pass by reference; the value is immutable after New.
type Scanner struct {
	re *regexp.Regexp
}

// New compiles a scanner for the given marker label.
//
// The token grammar is <non-underscore><marker><sign?><digits> where digits
// start with a non-zero digit: valid references are never zero and never
// zero-padded, and a field name ending in "_<marker>" is a different field
// that must not be rewritten. The non-underscore guard character is part of
// the match and is always re-emitted unchanged.
func New(marker string) *Scanner {
	return &Scanner{
		re: regexp.MustCompile(`([^_]` + regexp.QuoteMeta(marker) + `)(-?[1-9][0-9]*)`),
	}
}

// Rewrite scans text left to right and replaces each token's numeric portion
// with transform(parsedInteger), keeping the marker and all surrounding text
// unchanged. Matches never overlap. Input with no tokens is returned as-is.
// Rewrite is pure and cannot fail: malformed tokens simply do not match.
func (s *Scanner) Rewrite(text string, transform func(int) string) string {
	matches := s.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		// m: [start end g1start g1end g2start g2end]
		b.WriteString(text[last:m[2]])
		b.WriteString(text[m[2]:m[3]])
		n, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			// Unreachable: the pattern only admits decimal integers.
			b.WriteString(text[m[4]:m[5]])
		} else {
			b.WriteString(transform(n))
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
