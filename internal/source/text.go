package source

import (
	"io"
	"strings"

	"github.com/dgallion1/mdchunk/internal/doctree"
)

// TextLoader handles plain text files. Plain text has no markdown headers on
// purpose, so it always takes the unstructured path; "#" lines are escaped
// to keep them from being read as headers.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, path string) (doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return doctree.Document{}, err
	}

	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			lines[i] = `\` + line
		}
	}
	doc := newDocument(path, strings.Join(lines, "\n"))
	return doc, nil
}
