package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MaxLevel is the deepest header level treated as structure. Deeper headers
// stay in the body text of their enclosing section.
const MaxLevel = 3

var (
	frontMatterPattern = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)
	anchorPattern      = regexp.MustCompile(`\s*\{#[\w-]+\}\s*$`)
)

// FrontMatterEnd returns the byte offset just past a leading YAML front
// matter block, or 0 when the text has none.
func FrontMatterEnd(src string) int {
	loc := frontMatterPattern.FindStringIndex(src)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// FrontMatter returns the raw YAML between the front matter fences.
func FrontMatter(src string) string {
	m := frontMatterPattern.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseOutline returns the ATX headers of levels 1..MaxLevel in document
// order. Only headers starting at column 0 of a top-level block count, so
// "#" lines in code blocks, quotes and lists are body text.
//
// Text that is not valid UTF-8 or contains NUL bytes is treated as
// unstructured and yields no headers.
func ParseOutline(src string) []doctree.Header {
	if src == "" || !utf8.ValidString(src) || strings.IndexByte(src, 0) >= 0 {
		return nil
	}

	offset := FrontMatterEnd(src)
	body := []byte(src[offset:])
	doc := goldmark.DefaultParser().Parse(text.NewReader(body))

	var headers []doctree.Header
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > MaxLevel || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		start := lineStart(body, seg.Start)
		// Setext headings and indented ATX headings do not start with '#'.
		if body[start] != '#' {
			continue
		}
		title := cleanTitle(string(seg.Value(body)))
		if title == "" {
			continue
		}
		headers = append(headers, doctree.Header{
			Level:     h.Level,
			Title:     title,
			Start:     offset + start,
			BodyStart: offset + lineEnd(body, seg.Stop),
		})
	}

	for i := range headers {
		headers[i].End = len(src)
		if i+1 < len(headers) {
			headers[i].End = headers[i+1].Start
		}
		headers[i].SpanEnd = len(src)
		for j := i + 1; j < len(headers); j++ {
			if headers[j].Level <= headers[i].Level {
				headers[i].SpanEnd = headers[j].Start
				break
			}
		}
	}
	return headers
}

// cleanTitle trims whitespace and a trailing {#anchor-id}.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = anchorPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func lineStart(b []byte, pos int) int {
	for pos > 0 && b[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset just past the newline ending the line at pos.
func lineEnd(b []byte, pos int) int {
	for pos < len(b) {
		if b[pos] == '\n' {
			return pos + 1
		}
		pos++
	}
	return len(b)
}
