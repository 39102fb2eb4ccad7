package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/mdchunk/internal/doctree"
)

// SizeAware groups consecutive sections up to a target size, merges
// undersized groups forward and force-splits anything above the ceiling.
type SizeAware struct {
	cfg Config
}

// NewSizeAware returns a size-aware strategy after validating cfg.
func NewSizeAware(cfg Config) (*SizeAware, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SizeAware{cfg: cfg}, nil
}

func (s *SizeAware) Name() string { return StrategySize }

// Config returns the effective thresholds.
func (s *SizeAware) Config() Config { return s.cfg }

// Chunk implements Strategy.
func (s *SizeAware) Chunk(t *doctree.Tree) []doctree.Chunk {
	src := t.Source
	if strings.TrimSpace(src) == "" {
		return nil
	}

	if utf8.RuneCountInString(src) <= s.cfg.SmallDocThreshold {
		var path []string
		if len(t.Root.Children) > 0 {
			path = t.Root.Children[0].Path
		}
		return build(src, []piece{{start: 0, end: len(src), path: path, part: 1, parts: 1}})
	}

	var pieces []piece
	for _, g := range s.group(collectUnits(t, s.cfg.GroupLevel)) {
		pieces = append(pieces, splitRange(src, g, s.cfg)...)
	}
	return build(src, pieces)
}

// group applies the merge-small-sections policy: the accumulator closes when
// the next unit would push it past TargetSize, unless it is still below
// MinMergeSize or holds only front matter.
func (s *SizeAware) group(units []unit) []unit {
	var groups []unit
	var acc unit
	open := false
	for _, u := range units {
		if open && acc.size+u.size > s.cfg.TargetSize && acc.size >= s.cfg.MinMergeSize && !acc.front {
			groups = append(groups, acc)
			open = false
		}
		if !open {
			acc = unit{start: u.start, front: true}
			open = true
		}
		acc.end = u.end
		acc.size += u.size
		if !u.front {
			acc.front = false
		}
		if len(acc.path) == 0 && len(u.path) > 0 {
			acc.path = u.path
		}
	}
	if open {
		groups = append(groups, acc)
	}
	return groups
}
