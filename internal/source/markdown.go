package source

import (
	"io"
	"strings"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/parser"
	"gopkg.in/yaml.v3"
)

// MarkdownLoader handles Markdown files. The text is kept byte-for-byte,
// front matter included, so chunk offsets index the original file.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, path string) (doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return doctree.Document{}, err
	}
	text := string(src)
	doc := newDocument(path, text)

	// Unparseable front matter is ignored; the block stays in the text.
	if fm, err := ParseFrontMatter(text); err == nil {
		if fm.Title != "" {
			doc.Title = fm.Title
		}
		doc.Description = fm.Description
		doc.Keywords = fm.Keywords
		doc.Slug = fm.Slug
	}
	return doc, nil
}

// FrontMatter holds the YAML front matter fields carried into chunk records.
type FrontMatter struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Keywords     Keywords `yaml:"keywords"`
	Slug         string   `yaml:"slug"`
	SidebarLabel string   `yaml:"sidebar_label"`
}

// Keywords accepts either a YAML list or a comma-separated string.
type Keywords []string

func (k *Keywords) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*k = list
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(value.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*k = out
	}
	return nil
}

// ParseFrontMatter decodes a leading "---" YAML block. Text without front
// matter yields a zero FrontMatter and no error.
func ParseFrontMatter(text string) (FrontMatter, error) {
	var fm FrontMatter
	raw := parser.FrontMatter(text)
	if strings.TrimSpace(raw) == "" {
		return fm, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return FrontMatter{}, err
	}
	return fm, nil
}
