package doctree

import "strings"

// Document is a loaded source document, normalised to markdown text.
type Document struct {
	ID          string   // Stable identifier, usually the path relative to the corpus root
	Path        string   // Source path as given by the caller
	Title       string   // Front matter title, first header, or filename
	Text        string   // Full markdown text, front matter included
	Description string   // Front matter description
	Keywords    []string // Front matter keywords
	Slug        string   // Front matter slug
}

// Header is one structural header line found by the outline parser.
//
// Byte ranges: the header line is [Start, BodyStart), the directly owned body
// is [BodyStart, End) and End is the start of the next header of any level.
// SpanEnd is the start of the next header of equal-or-higher level.
type Header struct {
	Level     int
	Title     string
	Start     int
	BodyStart int
	End       int
	SpanEnd   int
}

// Section is a node of the section tree. The root has Level 0 and no title
// and owns the text before the first header.
type Section struct {
	Level     int
	Title     string
	Start     int
	BodyStart int
	End       int
	SpanEnd   int
	Path      []string // Titles from the outermost header down to this one
	Children  []*Section
}

// Tree is the section hierarchy of one document. Section offsets index Source.
type Tree struct {
	DocID  string
	Source string
	Root   *Section
}

// OwnText returns the header line plus the directly owned body.
func (t *Tree) OwnText(s *Section) string {
	return t.Source[s.Start:s.End]
}

// BodyText returns the directly owned body without the header line.
func (t *Tree) BodyText(s *Section) string {
	return t.Source[s.BodyStart:s.End]
}

// AggregateText returns own text followed by all descendants in document order.
func (t *Tree) AggregateText(s *Section) string {
	return t.Source[s.Start:s.SpanEnd]
}

// HeaderOnly reports whether a section has a header line but no body text.
func (t *Tree) HeaderOnly(s *Section) bool {
	return s.Level > 0 && strings.TrimSpace(t.BodyText(s)) == ""
}

// Walk visits sections in document order, root first.
func (t *Tree) Walk(fn func(s *Section)) {
	var walk func(s *Section)
	walk = func(s *Section) {
		fn(s)
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.Root)
}

// Sections returns every titled section in document order.
func (t *Tree) Sections() []*Section {
	var out []*Section
	t.Walk(func(s *Section) {
		if s.Level > 0 {
			out = append(out, s)
		}
	})
	return out
}

// Chunk is a contiguous, bounded span of document text.
type Chunk struct {
	Index      int      // Position within the document's chunk list
	Text       string   // Chunk text, a verbatim slice of the source
	HeaderPath []string // Heading hierarchy, e.g. ["Syntax", "Literals"]
	ByteStart  int
	ByteEnd    int
	CharLen    int // Length in runes
	Part       int // 1-based part number when force-split, else 1
	Parts      int // Total parts of the force-split group, else 1
}

// CopyPath returns an independent copy of a header path.
func CopyPath(p []string) []string {
	if len(p) == 0 {
		return nil
	}
	out := make([]string, len(p))
	copy(out, p)
	return out
}
