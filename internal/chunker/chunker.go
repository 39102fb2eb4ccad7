package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/parser"
)

// Strategy names accepted by New.
const (
	StrategySize    = "size"
	StrategyHeaders = "headers"
)

// Strategy turns a section tree into an ordered chunk list. Implementations
// are pure: the same tree always yields the same chunks.
type Strategy interface {
	Name() string
	Config() Config
	Chunk(tree *doctree.Tree) []doctree.Chunk
}

// ErrUnknownStrategy is returned by New for an unrecognized name.
var ErrUnknownStrategy = errors.New("unknown chunking strategy")

// New validates cfg and returns the named strategy. An empty name selects
// the size-aware strategy.
func New(name string, cfg Config) (Strategy, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch name {
	case "", StrategySize:
		return &SizeAware{cfg: cfg}, nil
	case StrategyHeaders:
		return &HeaderSplit{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// unit is a contiguous byte range of the source that grouping never splits.
type unit struct {
	start, end int
	size       int
	path       []string
	front      bool // text before the first header
	headerOnly bool // nothing but a header line (or blank front matter)
}

// piece is a finished chunk range before indexing.
type piece struct {
	start, end  int
	path        []string
	part, parts int
}

// collectUnits lists grouping units in document order. Sections shallower
// than level contribute their own text and are descended into; sections at
// or below level contribute their aggregate text.
func collectUnits(t *doctree.Tree, level int) []unit {
	src := t.Source
	var units []unit
	if root := t.Root; root.End > root.Start {
		units = append(units, unit{
			start:      root.Start,
			end:        root.End,
			front:      true,
			headerOnly: strings.TrimSpace(src[root.Start:root.End]) == "",
		})
	}

	var visit func(s *doctree.Section)
	visit = func(s *doctree.Section) {
		for _, c := range s.Children {
			if c.Level >= level {
				units = append(units, unit{
					start:      c.Start,
					end:        c.SpanEnd,
					path:       c.Path,
					headerOnly: strings.TrimSpace(src[c.BodyStart:c.SpanEnd]) == "",
				})
				continue
			}
			units = append(units, unit{
				start:      c.Start,
				end:        c.End,
				path:       c.Path,
				headerOnly: t.HeaderOnly(c),
			})
			visit(c)
		}
	}
	visit(t.Root)

	units = foldHeaderOnly(units)
	for i := range units {
		units[i].size = utf8.RuneCountInString(src[units[i].start:units[i].end])
	}
	return units
}

// foldHeaderOnly joins header-only units onto the unit that follows them so a
// bare header never ends a chunk. A trailing header-only unit joins the
// previous one.
func foldHeaderOnly(units []unit) []unit {
	var out []unit
	var pending *unit
	for _, u := range units {
		if pending != nil {
			merged := unit{start: pending.start, end: u.end, path: u.path, headerOnly: u.headerOnly}
			if !isPrefix(pending.path, u.path) {
				merged.path = pending.path
			}
			u = merged
			pending = nil
		}
		if u.headerOnly {
			p := u
			pending = &p
			continue
		}
		out = append(out, u)
	}
	if pending != nil {
		if len(out) == 0 {
			pending.headerOnly = false
			return append(out, *pending)
		}
		last := &out[len(out)-1]
		last.end = pending.end
		if len(last.path) == 0 {
			last.path = pending.path
		}
	}
	return out
}

func isPrefix(prefix, path []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if prefix[i] != path[i] {
			return false
		}
	}
	return true
}

// build turns finished pieces into indexed chunks.
func build(src string, pieces []piece) []doctree.Chunk {
	chunks := make([]doctree.Chunk, 0, len(pieces))
	for i, p := range pieces {
		text := src[p.start:p.end]
		chunks = append(chunks, doctree.Chunk{
			Index:      i,
			Text:       text,
			HeaderPath: doctree.CopyPath(p.path),
			ByteStart:  p.start,
			ByteEnd:    p.end,
			CharLen:    utf8.RuneCountInString(text),
			Part:       p.part,
			Parts:      p.parts,
		})
	}
	return chunks
}

// ChunkText parses src and chunks it with s. It is the text-in, chunks-out
// form of the Strategy capability.
func ChunkText(s Strategy, docID, src string) []doctree.Chunk {
	return s.Chunk(parser.Parse(docID, src))
}
