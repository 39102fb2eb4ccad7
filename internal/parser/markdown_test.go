package parser

import (
	"reflect"
	"strings"
	"testing"
)

func titles(t *testing.T, src string) []string {
	t.Helper()
	var out []string
	for _, h := range ParseOutline(src) {
		out = append(out, strings.Repeat("#", h.Level)+" "+h.Title)
	}
	return out
}

func TestParseOutline_Levels(t *testing.T) {
	src := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

#### Deep heading stays body

Subsection A1 content.

## Section B

Section B content.
`
	got := titles(t, src)
	want := []string{"# Title", "## Section A", "### Subsection A1", "## Section B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseOutline_Offsets(t *testing.T) {
	src := "pre\n\n# A\n\nbody a\n\n## B\n\nbody b\n\n# C\nbody c"
	hs := ParseOutline(src)
	if len(hs) != 3 {
		t.Fatalf("expected 3 headers, got %d", len(hs))
	}

	a, b, c := hs[0], hs[1], hs[2]
	if src[a.Start:a.BodyStart] != "# A\n" {
		t.Errorf("header line of A: got %q", src[a.Start:a.BodyStart])
	}
	if src[a.BodyStart:a.End] != "\nbody a\n\n" {
		t.Errorf("own body of A: got %q", src[a.BodyStart:a.End])
	}
	if a.SpanEnd != c.Start {
		t.Errorf("A should span to C at %d, got %d", c.Start, a.SpanEnd)
	}
	if b.End != c.Start || b.SpanEnd != c.Start {
		t.Errorf("B should end at C: end=%d span=%d want %d", b.End, b.SpanEnd, c.Start)
	}
	if c.End != len(src) || c.SpanEnd != len(src) {
		t.Errorf("last header should run to end of text")
	}
	if c.BodyStart-c.Start != len("# C\n") {
		t.Errorf("unexpected body start for C: %d", c.BodyStart)
	}
}

func TestParseOutline_IgnoresCodeAndContainers(t *testing.T) {
	src := "# Real\n\n   # indented heading\n\n    # indented code\n\n```bash\n# not a header\n```\n\n~~~\n## also not\n~~~\n\n> # quoted\n\n- # listed\n\n## Second\n"
	got := titles(t, src)
	want := []string{"# Real", "## Second"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseOutline_SetextIgnored(t *testing.T) {
	src := "Title\n=====\n\nSub\n---\n\n## Atx\n"
	got := titles(t, src)
	if !reflect.DeepEqual(got, []string{"## Atx"}) {
		t.Fatalf("expected only the ATX header, got %v", got)
	}
}

func TestParseOutline_TitleCleanup(t *testing.T) {
	src := "## Query Parameters {#query-params}\n\n### Closed ###\n\n#   Spaced   \n"
	got := titles(t, src)
	want := []string{"## Query Parameters", "### Closed", "# Spaced"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseOutline_FrontMatter(t *testing.T) {
	src := "---\ntitle: Guide\n# yaml comment\n---\n# Heading\n\ntext\n"
	hs := ParseOutline(src)
	if len(hs) != 1 || hs[0].Title != "Heading" {
		t.Fatalf("expected only the body heading, got %+v", hs)
	}
	if hs[0].Start != FrontMatterEnd(src) {
		t.Errorf("heading should start right after front matter: %d vs %d", hs[0].Start, FrontMatterEnd(src))
	}
	if fm := FrontMatter(src); fm != "title: Guide\n# yaml comment" {
		t.Errorf("unexpected front matter %q", fm)
	}
}

func TestFrontMatter_Absent(t *testing.T) {
	for _, src := range []string{"", "# Title\n", "text\n---\nmore\n---\n", "---\nunterminated\n"} {
		if end := FrontMatterEnd(src); end != 0 {
			t.Errorf("%q: expected no front matter, got end %d", src, end)
		}
	}
}

func TestParseOutline_Unstructured(t *testing.T) {
	cases := map[string]string{
		"empty":   "",
		"invalid": "# Title\n\xff\xfe broken\n## Sub\n",
		"nul":     "# Title\n\x00\n## Sub\n",
		"plain":   "just some text\nwith lines\n",
	}
	for name, src := range cases {
		if hs := ParseOutline(src); len(hs) != 0 {
			t.Errorf("%s: expected no headers, got %d", name, len(hs))
		}
	}
}

func TestParseOutline_MultibyteOffsets(t *testing.T) {
	src := "Préface ünd 漢字\n\n# Kapitel 一\n\nÜberblick.\n"
	hs := ParseOutline(src)
	if len(hs) != 1 {
		t.Fatalf("expected 1 header, got %d", len(hs))
	}
	if !strings.HasPrefix(src[hs[0].Start:], "# Kapitel 一\n") {
		t.Errorf("byte offset does not point at the header: %q", src[hs[0].Start:])
	}
	if hs[0].Title != "Kapitel 一" {
		t.Errorf("unexpected title %q", hs[0].Title)
	}
}
