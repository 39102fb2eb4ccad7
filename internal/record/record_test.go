package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/parser"
	"github.com/google/go-cmp/cmp"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Query Parameters":     "query-parameters",
		"  Spaces   everywhere": "spaces-everywhere",
		"C++ & Go!":            "c-go",
		"snake_case.name":      "snake-case-name",
		"Überblick 漢字":         "überblick-漢字",
		"???":                  "",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeDocID(t *testing.T) {
	cases := map[string]string{
		"sql-reference/syntax.md": "sql-reference-syntax",
		"Guide.MARKDOWN":          "guide",
		"notes.txt":               "notes-txt",
		"...":                     "doc",
	}
	for in, want := range cases {
		if got := SanitizeDocID(in); got != want {
			t.Errorf("SanitizeDocID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyGen_OrdinalsPerSegment(t *testing.T) {
	g := NewKeyGen("guide/intro.md")
	got := []string{
		g.Next(nil),
		g.Next([]string{"Setup"}),
		g.Next([]string{"Setup"}),
		g.Next([]string{"Setup", "Linux"}),
		g.Next([]string{"setup!"}),
		g.Next([]string{"???"}),
	}
	want := []string{
		"guide-intro::0000",
		"guide-intro::setup::0000",
		"guide-intro::setup::0001",
		"guide-intro::setup-linux::0000",
		"guide-intro::setup::0002",
		"guide-intro::0001",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestEmit_OffsetsAndMetadata(t *testing.T) {
	src := "---\ntitle: Ünïcode\n---\n# Einführung\n\nText mit Umlauten äöü.\n\n# Zweiter Teil\n\n漢字とかな。\n"
	doc := doctree.Document{
		ID:       "de/intro.md",
		Path:     "/corpus/de/intro.md",
		Title:    "Ünïcode",
		Text:     src,
		Keywords: []string{"a", "b"},
	}
	s, err := chunker.New(chunker.StrategyHeaders, chunker.Config{})
	if err != nil {
		t.Fatal(err)
	}
	records := Emit(doc, s.Name(), s.Chunk(parser.Parse(doc.ID, src)))

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	runes := []rune(src)
	seen := map[string]bool{}
	for i, r := range records {
		if string(runes[r.CharStart:r.CharEnd]) != r.Text {
			t.Errorf("record %d: char offsets do not address its text", i)
		}
		if src[r.ByteStart:r.ByteEnd] != r.Text {
			t.Errorf("record %d: byte offsets do not address its text", i)
		}
		if r.DocID != doc.ID || r.SourcePath != doc.Path || r.Title != doc.Title || r.Strategy != "headers" {
			t.Errorf("record %d: metadata not carried: %+v", i, r)
		}
		if r.HeaderPath == nil {
			t.Errorf("record %d: header path must be non-nil", i)
		}
		if r.TokenEstimate < 1 {
			t.Errorf("record %d: expected a token estimate", i)
		}
		if seen[r.Key] {
			t.Errorf("duplicate key %q", r.Key)
		}
		seen[r.Key] = true
	}
	if records[0].Key != "de-intro::0000" || records[1].Key != "de-intro::einführung::0000" {
		t.Errorf("unexpected keys %q, %q", records[0].Key, records[1].Key)
	}
	if records[2].CharEnd != len(runes) {
		t.Errorf("last record should end at the document end")
	}
}

func TestEmit_DuplicateTitlesStayUnique(t *testing.T) {
	src := "## Example\n\none\n\n## Example\n\ntwo\n\n## example!\n\nthree\n"
	s, _ := chunker.New(chunker.StrategyHeaders, chunker.Config{})
	records := Emit(doctree.Document{ID: "d.md", Text: src}, s.Name(), s.Chunk(parser.Parse("d.md", src)))

	want := []string{"d::example::0000", "d::example::0001", "d::example::0002"}
	var got []string
	for _, r := range records {
		got = append(got, r.Key)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONL(t *testing.T) {
	src := "# A\n\n<b>bold</b> & more\n"
	s, _ := chunker.New(chunker.StrategySize, chunker.Config{})
	records := Emit(doctree.Document{ID: "a.md", Text: src}, s.Name(), s.Chunk(parser.Parse("a.md", src)))

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, records); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != len(records) {
		t.Errorf("expected one line per record")
	}
	if !strings.Contains(buf.String(), "<b>bold</b> & more") {
		t.Errorf("html should not be escaped: %s", buf.String())
	}

	back, err := ReadJSONL(strings.NewReader("\n" + buf.String() + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(records, back); diff != "" {
		t.Errorf("records changed through JSONL (-want +got):\n%s", diff)
	}

	if _, err := ReadJSONL(strings.NewReader("{\"doc_id\":\n")); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected a line-numbered error, got %v", err)
	}
}
