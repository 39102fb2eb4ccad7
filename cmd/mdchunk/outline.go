package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/parser"
	"github.com/dgallion1/mdchunk/internal/source"
	"github.com/spf13/cobra"
)

var outlineChunks bool

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the section tree of one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func init() {
	outlineCmd.Flags().BoolVar(&outlineChunks, "chunks", false, "also list the chunks the strategy produces")
}

func runOutline(cmd *cobra.Command, args []string) error {
	doc, err := source.LoadFile(args[0], "", source.Options{})
	if err != nil {
		return err
	}
	tree := parser.Parse(doc.ID, doc.Text)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s (%d chars)\n", doc.Title, utf8.RuneCountInString(doc.Text))
	printSections(out, tree)

	if !outlineChunks {
		return nil
	}
	strategy, err := newStrategy()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nchunks (%s):\n", strategy.Name())
	for _, c := range strategy.Chunk(tree) {
		fmt.Fprintf(out, "  %3d  %6d  %s", c.Index, c.CharLen, strings.Join(c.HeaderPath, " > "))
		if c.Parts > 1 {
			fmt.Fprintf(out, " (%d/%d)", c.Part, c.Parts)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func printSections(w io.Writer, t *doctree.Tree) {
	if n := utf8.RuneCountInString(t.OwnText(t.Root)); n > 0 {
		fmt.Fprintf(w, "  (front) %d\n", n)
	}
	for _, s := range t.Sections() {
		fmt.Fprintf(w, "%s%s %s  [own %d, total %d]\n",
			strings.Repeat("  ", s.Level),
			strings.Repeat("#", s.Level),
			s.Title,
			utf8.RuneCountInString(t.OwnText(s)),
			utf8.RuneCountInString(t.AggregateText(s)),
		)
	}
}

