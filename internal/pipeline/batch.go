package pipeline

import (
	"context"
	"log/slog"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/dgallion1/mdchunk/internal/record"
	"github.com/dgallion1/mdchunk/internal/source"
	"github.com/dgallion1/mdchunk/internal/store"
	"golang.org/x/sync/errgroup"
)

// BatchOptions configures a batch run.
type BatchOptions struct {
	Root     string           // Document ids are paths relative to Root
	Workers  int              // Parallel documents; <= 0 means 1
	Strategy chunker.Strategy // Required
	Store    *store.Store     // Optional; nil skips persistence
	Loader   source.Options
	Stats    *Stats // Optional
	Log      *slog.Logger
}

// BatchResult is the outcome for one input path.
type BatchResult struct {
	Path      string
	DocID     string
	Title     string
	Records   []record.Record
	Unchanged bool
	Err       error
}

// Batch loads, chunks and optionally stores every path, one document per
// worker. Results are in input order. A failing document is reported in its
// result and never stops the batch. Cancelling ctx stops the batch between
// documents; unprocessed results then carry the context error, which is
// also returned.
func Batch(ctx context.Context, paths []string, opts BatchOptions) ([]BatchResult, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	workers := max(opts.Workers, 1)

	results := make([]BatchResult, len(paths))
	for i, p := range paths {
		results[i] = BatchResult{Path: p, DocID: source.DocID(p, opts.Root)}
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range paths {
		res := &results[i]
		if err := ctx.Err(); err != nil {
			res.Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res.Err = err
				return nil
			}
			processFile(ctx, res, opts, log.With("doc_id", res.DocID))
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

func processFile(ctx context.Context, res *BatchResult, opts BatchOptions, log *slog.Logger) {
	doc, err := source.LoadFile(res.Path, opts.Root, opts.Loader)
	if err != nil {
		log.Warn("load failed", "path", res.Path, "error", err)
		res.Err = err
		return
	}
	res.Title = doc.Title

	out, err := ingest(ctx, doc, opts.Strategy, opts.Store, opts.Stats, log, func(JobStatus) {})
	if err != nil {
		log.Warn("ingest failed", "path", res.Path, "error", err)
		res.Err = err
		return
	}
	res.Records = out.records
	res.Unchanged = out.unchanged
}
