package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/mdchunk/internal/pipeline"
	"github.com/dgallion1/mdchunk/internal/record"
	"github.com/dgallion1/mdchunk/internal/source"
	"github.com/dgallion1/mdchunk/internal/store"
	"github.com/spf13/cobra"
)

var (
	chunkRoot     string
	chunkOut      string
	chunkDB       string
	chunkWorkers  int
	chunkPreview  int
	chunkMDOnly   bool
	chunkPdfShell bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk <dir|file>...",
	Short: "Chunk documents and write JSONL records",
	Long: `Walks each directory for markdown documents (or every supported format
with --markdown-only=false), chunks each one and writes one JSON record per
chunk. Document ids are paths relative to --root, which defaults to the only
directory argument. With --db the records are also stored in SQLite and
unchanged documents are skipped on later runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVar(&chunkRoot, "root", "", "directory document ids are relative to")
	chunkCmd.Flags().StringVarP(&chunkOut, "out", "o", "-", "JSONL output file, - for stdout")
	chunkCmd.Flags().StringVar(&chunkDB, "db", "", "optional SQLite database for stored chunks")
	chunkCmd.Flags().IntVarP(&chunkWorkers, "workers", "w", runtime.NumCPU(), "documents chunked in parallel")
	chunkCmd.Flags().IntVar(&chunkPreview, "preview", 0, "print the first N chunks to stderr")
	chunkCmd.Flags().BoolVar(&chunkMDOnly, "markdown-only", true, "only pick up .md and .markdown files")
	chunkCmd.Flags().BoolVar(&chunkPdfShell, "pdftotext", true, "fall back to pdftotext for PDFs the native reader cannot handle")
}

func runChunk(cmd *cobra.Command, args []string) error {
	log := newLogger()

	strategy, err := newStrategy()
	if err != nil {
		return err
	}

	var paths []string
	for _, arg := range args {
		found, err := source.Discover(arg, chunkMDOnly)
		if err != nil {
			return fmt.Errorf("scan %s: %w", arg, err)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents found in %s", strings.Join(args, ", "))
	}
	idRoot := idRootFor(args)
	log.Debug("discovered documents", "count", len(paths), "root", idRoot)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if chunkDB != "" {
		st, err = store.Open(chunkDB)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	stats := pipeline.NewStats(0)
	start := time.Now()
	results, batchErr := pipeline.Batch(ctx, paths, pipeline.BatchOptions{
		Root:     idRoot,
		Workers:  chunkWorkers,
		Strategy: strategy,
		Store:    st,
		Loader:   source.Options{PDFFallbackPdftotext: chunkPdfShell},
		Stats:    stats,
		Log:      log,
	})

	out, closeOut, err := openOutput(chunkOut)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)

	var total, failed, unchanged int
	var preview []record.Record
	for _, res := range results {
		if res.Err != nil {
			failed++
			if !errors.Is(res.Err, context.Canceled) {
				log.Error("document failed", "path", res.Path, "error", res.Err)
			}
			continue
		}
		if res.Unchanged {
			unchanged++
		}
		if err := record.WriteJSONL(w, res.Records); err != nil {
			closeOut()
			return err
		}
		total += len(res.Records)
		if n := chunkPreview - len(preview); n > 0 {
			preview = append(preview, res.Records[:min(n, len(res.Records))]...)
		}
	}
	if err := w.Flush(); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	printPreview(cmd.ErrOrStderr(), preview)

	snap := stats.Snapshot()
	log.Info("chunking complete",
		"documents", len(results)-failed,
		"failed", failed,
		"unchanged", unchanged,
		"chunks", total,
		"strategy", strategy.Name(),
		"p50_us", snap.P50Us,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if batchErr != nil {
		return batchErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// idRootFor picks the directory document ids are relative to: --root, else
// the single directory argument, else the directory of a single file.
func idRootFor(args []string) string {
	if chunkRoot != "" || len(args) != 1 {
		return chunkRoot
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return ""
	}
	if info.IsDir() {
		return args[0]
	}
	return filepath.Dir(args[0])
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func printPreview(w io.Writer, records []record.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "--- %s (%d chars, part %d/%d) [%s]\n", r.Key, r.CharLen, r.Part, r.Parts, strings.Join(r.HeaderPath, " > "))
		text := r.Text
		if len([]rune(text)) > 200 {
			text = string([]rune(text)[:200]) + "..."
		}
		fmt.Fprintln(w, text)
	}
}
