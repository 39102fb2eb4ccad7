package record

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// KeyGen assigns chunk keys of the form "<doc>::<path>::<NNNN>", or
// "<doc>::<NNNN>" when the header path is empty. The ordinal counts chunks
// whose sanitized path segment is identical, so duplicate or
// sanitize-equivalent titles never collide within one document.
type KeyGen struct {
	doc  string
	seen map[string]int
}

// NewKeyGen returns a generator for one document's chunk set.
func NewKeyGen(docID string) *KeyGen {
	return &KeyGen{doc: SanitizeDocID(docID), seen: make(map[string]int)}
}

// Next returns the key for the next chunk with the given header path.
func (g *KeyGen) Next(headerPath []string) string {
	parts := make([]string, 0, len(headerPath))
	for _, title := range headerPath {
		if s := Sanitize(title); s != "" {
			parts = append(parts, s)
		}
	}
	segment := strings.Join(parts, "-")

	n := g.seen[segment]
	g.seen[segment] = n + 1

	if segment == "" {
		return fmt.Sprintf("%s::%04d", g.doc, n)
	}
	return fmt.Sprintf("%s::%s::%04d", g.doc, segment, n)
}

// SanitizeDocID drops a markdown extension and sanitizes the rest, so
// "sql-reference/syntax.md" becomes "sql-reference-syntax".
func SanitizeDocID(id string) string {
	switch strings.ToLower(filepath.Ext(id)) {
	case ".md", ".markdown":
		id = id[:len(id)-len(filepath.Ext(id))]
	}
	if s := Sanitize(id); s != "" {
		return s
	}
	return "doc"
}

// Sanitize lower-cases s, turns separators into single dashes and drops
// anything that is not a letter or digit.
func Sanitize(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || strings.ContainsRune("-_./\\", r):
			dash = true
		}
	}
	return b.String()
}
