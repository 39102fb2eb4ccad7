package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/parser"
)

// ErrUnsupported is returned for file extensions without a loader.
var ErrUnsupported = errors.New("unsupported file type")

// Loader converts raw document bytes into a markdown Document.
type Loader interface {
	Load(r io.Reader, path string) (doctree.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune loaders that shell out or degrade.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".txt":
		return &TextLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	case ".html", ".htm":
		return NewHTMLLoader(), nil
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// LoadFile reads path from disk. The document id is the slash-separated path
// relative to root, or the cleaned path when root is empty or unrelated.
func LoadFile(path, root string, opts Options) (doctree.Document, error) {
	l, err := ForFile(path, opts)
	if err != nil {
		return doctree.Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return doctree.Document{}, err
	}
	defer f.Close()

	doc, err := l.Load(f, path)
	if err != nil {
		return doctree.Document{}, fmt.Errorf("load %s: %w", path, err)
	}
	doc.ID = DocID(path, root)
	return doc, nil
}

// DocID derives a stable document id from a path.
func DocID(path, root string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// stem returns the base filename without extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultTitle prefers the first level-1 header, then a title-cased stem
// ("query-parameters" becomes "Query Parameters").
func defaultTitle(text, path string) string {
	for _, h := range parser.ParseOutline(text) {
		if h.Level == 1 {
			return h.Title
		}
	}
	words := strings.FieldsFunc(stem(path), func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func newDocument(path, text string) doctree.Document {
	return doctree.Document{
		ID:    filepath.ToSlash(path),
		Path:  path,
		Title: defaultTitle(text, path),
		Text:  text,
	}
}
