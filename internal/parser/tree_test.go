package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/mdchunk/internal/doctree"
)

const treeDoc = `intro before headers

# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`

func TestParse_Hierarchy(t *testing.T) {
	tree := Parse("doc.md", treeDoc)

	if tree.DocID != "doc.md" || tree.Source != treeDoc {
		t.Fatalf("tree does not carry its document")
	}
	if got := tree.OwnText(tree.Root); got != "intro before headers\n\n" {
		t.Errorf("root own text: got %q", got)
	}

	if len(tree.Root.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(tree.Root.Children))
	}
	h1 := tree.Root.Children[0]
	if h1.Title != "Title" || h1.Level != 1 {
		t.Errorf("unexpected h1 %q level %d", h1.Title, h1.Level)
	}
	if !strings.Contains(tree.BodyText(h1), "Intro text.") || strings.Contains(tree.BodyText(h1), "Section A") {
		t.Errorf("h1 body should hold only its own text, got %q", tree.BodyText(h1))
	}

	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}
	secA, secB := h1.Children[0], h1.Children[1]
	if len(secA.Children) != 1 || secA.Children[0].Title != "Subsection A1" {
		t.Fatalf("expected Subsection A1 under Section A")
	}
	if len(secB.Children) != 0 {
		t.Errorf("Section B should have no children")
	}

	agg := tree.AggregateText(secA)
	if !strings.Contains(agg, "Section A content.") || !strings.Contains(agg, "Subsection A1 content.") {
		t.Errorf("aggregate of A should include its subsection, got %q", agg)
	}
	if strings.Contains(agg, "Section B") {
		t.Errorf("aggregate of A leaked into B")
	}

	wantPath := []string{"Title", "Section A", "Subsection A1"}
	if !reflect.DeepEqual(secA.Children[0].Path, wantPath) {
		t.Errorf("expected path %v, got %v", wantPath, secA.Children[0].Path)
	}
}

func TestParse_SkippedLevels(t *testing.T) {
	tree := Parse("d", "# A\n\n### deep\n\ntext\n\n## B\n\nmore\n")
	a := tree.Root.Children[0]
	if len(a.Children) != 2 {
		t.Fatalf("expected A to own both the skipped-level and the H2 section, got %d", len(a.Children))
	}
	if a.Children[0].Title != "deep" || a.Children[1].Title != "B" {
		t.Errorf("unexpected children order")
	}
}

func TestParse_TextOwnership(t *testing.T) {
	// Every byte is owned by exactly one node: root own text plus each
	// section's own text concatenate back to the source.
	tree := Parse("d", treeDoc)
	var b strings.Builder
	tree.Walk(func(s *doctree.Section) {
		b.WriteString(tree.OwnText(s))
	})
	if b.String() != treeDoc {
		t.Errorf("own texts do not reconstruct the document")
	}
	if n := len(tree.Sections()); n != 4 {
		t.Errorf("expected 4 sections, got %d", n)
	}
}

func TestParse_NoHeaders(t *testing.T) {
	tree := Parse("d", "plain text only\n")
	if len(tree.Root.Children) != 0 {
		t.Fatalf("expected no sections")
	}
	if tree.OwnText(tree.Root) != "plain text only\n" {
		t.Errorf("root should own the whole text")
	}
}

func TestParse_Empty(t *testing.T) {
	tree := Parse("d", "")
	if tree.Root == nil || len(tree.Root.Children) != 0 {
		t.Fatalf("expected empty root")
	}
	if tree.Root.End != 0 {
		t.Errorf("expected empty root range")
	}
}
