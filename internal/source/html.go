package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// HTMLLoader converts HTML pages to markdown. Heading tags become ATX
// headers, so the page structure survives into the section tree.
type HTMLLoader struct {
	policy *bluemonday.Policy
	conv   *converter.Converter
}

// NewHTMLLoader builds a loader with a UGC sanitizing policy.
func NewHTMLLoader() *HTMLLoader {
	return &HTMLLoader{
		policy: bluemonday.UGCPolicy(),
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (l *HTMLLoader) Load(r io.Reader, path string) (doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return doctree.Document{}, fmt.Errorf("parse html: %w", err)
	}

	title := findTitle(root)
	body := findBody(root)
	if body == nil {
		body = root
	}
	stripNonContent(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return doctree.Document{}, fmt.Errorf("render html: %w", err)
		}
	}

	clean := l.policy.Sanitize(buf.String())
	md, err := l.conv.ConvertString(clean)
	if err != nil {
		return doctree.Document{}, fmt.Errorf("convert html: %w", err)
	}

	doc := newDocument(path, strings.TrimSpace(md)+"\n")
	if title != "" {
		doc.Title = title
	}
	return doc, nil
}

// stripNonContent removes page chrome that would otherwise pollute chunks.
func stripNonContent(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			switch c.Data {
			case "script", "style", "nav", "footer", "header", "noscript":
				n.RemoveChild(c)
				c = next
				continue
			}
		}
		stripNonContent(c)
		c = next
	}
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
