package chunker

import (
	"strings"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/parser"
)

// HeaderSplit is the naive strategy: one chunk per header section (own text
// only), front matter as its own chunk. Sizes are not balanced, but chunks
// above MaxSize are still force-split.
type HeaderSplit struct {
	cfg Config
}

func (h *HeaderSplit) Name() string { return StrategyHeaders }

func (h *HeaderSplit) Config() Config { return h.cfg }

// Chunk implements Strategy.
func (h *HeaderSplit) Chunk(t *doctree.Tree) []doctree.Chunk {
	if strings.TrimSpace(t.Source) == "" {
		return nil
	}
	// A level below every structural header yields own-text units only.
	var pieces []piece
	for _, u := range collectUnits(t, parser.MaxLevel+1) {
		pieces = append(pieces, splitRange(t.Source, u, h.cfg)...)
	}
	return build(t.Source, pieces)
}
