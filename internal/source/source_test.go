package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/mdchunk/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFile(t *testing.T) {
	cases := map[string]any{
		"a.md":       &MarkdownLoader{},
		"a.MARKDOWN": &MarkdownLoader{},
		"a.txt":      &TextLoader{},
		"a.csv":      &CSVLoader{},
		"a.docx":     &DOCXLoader{},
	}
	for name, want := range cases {
		l, err := ForFile(name, Options{})
		require.NoError(t, err, name)
		assert.IsType(t, want, l, name)
	}

	l, err := ForFile("page.htm", Options{})
	require.NoError(t, err)
	assert.IsType(t, &HTMLLoader{}, l)

	l, err = ForFile("scan.pdf", Options{PDFFallbackPdftotext: true})
	require.NoError(t, err)
	assert.True(t, l.(*PDFLoader).FallbackPdftotext)

	_, err = ForFile("image.png", Options{})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, IsSupportedExtension("image.png"))
	assert.True(t, IsSupportedExtension("README.MD"))
}

func TestDocID(t *testing.T) {
	assert.Equal(t, "guide/intro.md", DocID(filepath.Join("docs", "guide", "intro.md"), "docs"))
	assert.Equal(t, "other/x.md", DocID(filepath.Join("other", "x.md"), "docs"))
	assert.Equal(t, "x.md", DocID("./x.md", ""))
}

func TestMarkdownLoader_FrontMatter(t *testing.T) {
	src := "---\ntitle: Query Guide\ndescription: How to query\nkeywords: [search, filter]\nslug: /query\n---\n# Heading\n\nBody.\n"
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(src), "docs/query.md")
	require.NoError(t, err)

	assert.Equal(t, src, doc.Text, "text must be preserved byte-for-byte")
	assert.Equal(t, "Query Guide", doc.Title)
	assert.Equal(t, "How to query", doc.Description)
	assert.Equal(t, []string{"search", "filter"}, doc.Keywords)
	assert.Equal(t, "/query", doc.Slug)
}

func TestMarkdownLoader_TitleFallbacks(t *testing.T) {
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader("intro\n\n# Real Title\n\n## Sub\n"), "a.md")
	require.NoError(t, err)
	assert.Equal(t, "Real Title", doc.Title)

	doc, err = (&MarkdownLoader{}).Load(strings.NewReader("## Only H2\n"), "query-parameters.md")
	require.NoError(t, err)
	assert.Equal(t, "Query Parameters", doc.Title)
}

func TestMarkdownLoader_BadFrontMatterIgnored(t *testing.T) {
	src := "---\ntitle: [unclosed\n---\n# Doc\n"
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(src), "bad.md")
	require.NoError(t, err)
	assert.Equal(t, "Doc", doc.Title)
	assert.Empty(t, doc.Description)
}

func TestParseFrontMatter_KeywordString(t *testing.T) {
	fm, err := ParseFrontMatter("---\nkeywords: alpha, beta ,, gamma\nsidebar_label: Alpha\n---\nbody")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, []string(fm.Keywords))
	assert.Equal(t, "Alpha", fm.SidebarLabel)

	fm, err = ParseFrontMatter("no front matter")
	require.NoError(t, err)
	assert.Equal(t, FrontMatter{}, fm)
}

func TestTextLoader_EscapesHashLines(t *testing.T) {
	doc, err := (&TextLoader{}).Load(strings.NewReader("# not a header\nplain\n"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "\\# not a header\nplain\n", doc.Text)
	assert.Empty(t, parser.ParseOutline(doc.Text))
	assert.Equal(t, "Notes", doc.Title)
}

func TestCSVLoader_Tables(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,qty\n")
	for i := 0; i < 25; i++ {
		b.WriteString("item,1\n")
	}
	doc, err := (&CSVLoader{}).Load(strings.NewReader(b.String()), "data/stock.csv")
	require.NoError(t, err)

	headers := parser.ParseOutline(doc.Text)
	require.Len(t, headers, 3)
	assert.Equal(t, "stock", headers[0].Title)
	assert.Equal(t, "Rows 2-21", headers[1].Title)
	assert.Equal(t, "Rows 22-26", headers[2].Title)
	assert.Contains(t, doc.Text, "| name | qty |")
	assert.Contains(t, doc.Text, "| item | 1 |")
}

func TestCSVLoader_PipeEscaped(t *testing.T) {
	doc, err := (&CSVLoader{}).Load(strings.NewReader("a,b\nx|y,z\n"), "p.csv")
	require.NoError(t, err)
	assert.Contains(t, doc.Text, `| x\|y | z |`)
}

func TestHTMLLoader_ConvertsHeadings(t *testing.T) {
	page := `<html><head><title>Page Title</title><style>p{}</style></head>
<body><nav>menu</nav><h1>Intro</h1><p>Hello <b>world</b>.</p>
<h2>Details</h2><p>More text.</p><script>alert(1)</script></body></html>`

	doc, err := NewHTMLLoader().Load(strings.NewReader(page), "page.html")
	require.NoError(t, err)

	assert.Equal(t, "Page Title", doc.Title)
	assert.NotContains(t, doc.Text, "menu")
	assert.NotContains(t, doc.Text, "alert")

	headers := parser.ParseOutline(doc.Text)
	require.Len(t, headers, 2)
	assert.Equal(t, 1, headers[0].Level)
	assert.Equal(t, "Intro", headers[0].Title)
	assert.Equal(t, "Details", headers[1].Title)
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "guide")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "setup.md")
	require.NoError(t, os.WriteFile(path, []byte("# Setup\n\nSteps.\n"), 0o644))

	doc, err := LoadFile(path, root, Options{})
	require.NoError(t, err)
	assert.Equal(t, "guide/setup.md", doc.ID)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "Setup", doc.Title)

	_, err = LoadFile(filepath.Join(root, "missing.md"), root, Options{})
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.md", "a/z.markdown", "a/notes.txt", "a/img.png", ".git/x.md", "c/.hidden.md"} {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("# x\n"), 0o644))
	}

	all, err := Discover(root, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a/notes.txt"),
		filepath.Join(root, "a/z.markdown"),
		filepath.Join(root, "b.md"),
	}, all)

	md, err := Discover(root, true)
	require.NoError(t, err)
	assert.Len(t, md, 2)

	_, err = Discover(filepath.Join(root, "missing"), false)
	assert.Error(t, err)
}
