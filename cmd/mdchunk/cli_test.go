package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/mdchunk/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		chunkCfg.MinMergeSize = 1000
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeDoc(t *testing.T, dir, name, text string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
}

func TestChunkCommand(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "guide/intro.md", "# Intro\n\nWelcome.\n")
	writeDoc(t, root, "ref.md", "---\ntitle: Reference\n---\n\n## A\n\naaa\n")
	writeDoc(t, root, "skip.txt", "not markdown")
	out := filepath.Join(t.TempDir(), "chunks.jsonl")

	_, err := execute(t, "chunk", root, "--out", out, "--workers", "2", "--preview", "1")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	records, err := record.ReadJSONL(f)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "guide/intro.md", records[0].DocID)
	assert.Equal(t, "guide-intro::intro::0000", records[0].Key)
	assert.Equal(t, "ref.md", records[1].DocID)
	assert.Equal(t, "Reference", records[1].Title)
	assert.True(t, strings.HasPrefix(records[1].Text, "---\n"))
}

func TestChunkCommand_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "# A\n")

	_, err := execute(t, "chunk", root, "--min-merge-size", "999999", "--out", filepath.Join(t.TempDir(), "x.jsonl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_merge_size")
}

func TestOutlineCommand(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "doc.md", "# Top\n\nintro\n\n## Child\n\nbody\n")

	out, err := execute(t, "outline", filepath.Join(root, "doc.md"))
	require.NoError(t, err)
	assert.Contains(t, out, "# Top")
	assert.Contains(t, out, "    ## Child")
}

func TestIDRootFor(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n")

	assert.Equal(t, dir, idRootFor([]string{dir}))
	assert.Equal(t, dir, idRootFor([]string{filepath.Join(dir, "a.md")}))
	assert.Equal(t, "", idRootFor([]string{dir, dir}))

	chunkRoot = "/corpus"
	t.Cleanup(func() { chunkRoot = "" })
	assert.Equal(t, "/corpus", idRootFor([]string{dir}))
}
