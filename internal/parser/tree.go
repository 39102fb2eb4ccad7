package parser

import "github.com/dgallion1/mdchunk/internal/doctree"

// Parse builds the section tree of a markdown document.
func Parse(docID, src string) *doctree.Tree {
	return BuildTree(docID, src, ParseOutline(src))
}

// BuildTree folds a flat header list into the section hierarchy. A header's
// children are the following headers of strictly greater level, up to the
// next header of equal-or-lesser level.
func BuildTree(docID, src string, headers []doctree.Header) *doctree.Tree {
	root := &doctree.Section{
		End:     len(src),
		SpanEnd: len(src),
	}
	if len(headers) > 0 {
		root.End = headers[0].Start
	}

	// Root is level 0, every header nests under it.
	stack := []*doctree.Section{root}
	for _, h := range headers {
		for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		s := &doctree.Section{
			Level:     h.Level,
			Title:     h.Title,
			Start:     h.Start,
			BodyStart: h.BodyStart,
			End:       h.End,
			SpanEnd:   h.SpanEnd,
			Path:      append(doctree.CopyPath(parent.Path), h.Title),
		}
		parent.Children = append(parent.Children, s)
		stack = append(stack, s)
	}

	return &doctree.Tree{DocID: docID, Source: src, Root: root}
}
