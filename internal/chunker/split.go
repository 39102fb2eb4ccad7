package chunker

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitRange force-splits a unit above MaxSize into sub-chunks that all
// repeat the unit's header path.
func splitRange(src string, u unit, cfg Config) []piece {
	text := src[u.start:u.end]
	cuts := cutPoints(text, cfg.MaxSize, cfg.MinMergeSize)
	if len(cuts) == 0 {
		return []piece{{start: u.start, end: u.end, path: u.path, part: 1, parts: 1}}
	}

	parts := len(cuts) + 1
	pieces := make([]piece, 0, parts)
	prev := 0
	for i, c := range append(cuts, len(text)) {
		pieces = append(pieces, piece{
			start: u.start + prev,
			end:   u.start + c,
			path:  u.path,
			part:  i + 1,
			parts: parts,
		})
		prev = c
	}
	return pieces
}

// cutPoints returns the byte offsets at which text is split so that no piece
// exceeds maxSize runes. It uses the minimum number of pieces. Each cut lies
// in a window that keeps the rest splittable into the remaining pieces and,
// when the text allows it, keeps every piece at least minSize. Inside the
// window the cut nearest the balanced length wins, preferring paragraph
// boundaries, then whitespace, then an exact rune offset. Every iteration
// advances by at least one rune, so the loop always terminates.
func cutPoints(text string, maxSize, minSize int) []int {
	total := utf8.RuneCountInString(text)
	if maxSize <= 0 || total <= maxSize {
		return nil
	}

	runeAt := runeOffsets(text)
	paras := make([]int, 0)
	for _, b := range paragraphBreaks(text) {
		paras = append(paras, sort.SearchInts(runeAt, b))
	}

	var cuts []int
	pos := 0
	for total-pos > maxSize {
		remaining := total - pos
		pieces := (remaining + maxSize - 1) / maxSize
		ideal := pos + (remaining+pieces-1)/pieces

		lo := pos + max(minSize, remaining-(pieces-1)*maxSize)
		hi := pos + min(maxSize, remaining-minSize)
		if lo > hi {
			lo = pos + max(1, remaining-(pieces-1)*maxSize)
			hi = pos + maxSize
		}

		cut := nearestIn(paras, lo, hi, ideal)
		if cut < 0 {
			cut = nearestSpace(text, runeAt, lo, hi, ideal)
		}
		if cut < 0 {
			cut = min(max(ideal, lo), hi)
		}
		cuts = append(cuts, runeAt[cut])
		pos = cut
	}
	return cuts
}

// runeOffsets maps rune index to byte offset, with a trailing len(s) entry.
func runeOffsets(s string) []int {
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	return append(offs, len(s))
}

// paragraphBreaks returns the byte offsets of lines that start a paragraph
// after one or more blank lines. Blank lines inside fenced code blocks do
// not count.
func paragraphBreaks(text string) []int {
	var breaks []int
	inFence := false
	fence := ""
	prevBlank := false

	for off := 0; off < len(text); {
		next := len(text)
		line := text[off:]
		if nl := strings.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
			next = off + nl + 1
		}
		trimmed := strings.TrimSpace(line)
		lead := strings.TrimLeft(line, " \t")
		isFence := strings.HasPrefix(lead, "```") || strings.HasPrefix(lead, "~~~")

		if !inFence {
			if prevBlank && trimmed != "" {
				breaks = append(breaks, off)
			}
			if isFence {
				inFence = true
				fence = lead[:3]
			}
			prevBlank = trimmed == ""
		} else {
			if isFence && strings.HasPrefix(lead, fence) {
				inFence = false
			}
			prevBlank = false
		}
		off = next
	}
	return breaks
}

// nearestIn returns the candidate in sorted cands within [lo, hi] closest to
// ideal, or -1. Ties go to the earlier candidate.
func nearestIn(cands []int, lo, hi, ideal int) int {
	best := -1
	for i := sort.SearchInts(cands, lo); i < len(cands) && cands[i] <= hi; i++ {
		if best < 0 || abs(cands[i]-ideal) < abs(best-ideal) {
			best = cands[i]
		}
	}
	return best
}

// nearestSpace returns the rune index within [lo, hi] closest to ideal that
// directly follows a whitespace rune, or -1.
func nearestSpace(text string, runeAt []int, lo, hi, ideal int) int {
	ideal = min(max(ideal, lo), hi)
	for d := 0; ideal-d >= lo || ideal+d <= hi; d++ {
		for _, r := range [2]int{ideal - d, ideal + d} {
			if r < lo || r > hi || r == 0 {
				continue
			}
			c, _ := utf8.DecodeRuneInString(text[runeAt[r-1]:])
			if unicode.IsSpace(c) {
				return r
			}
		}
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
