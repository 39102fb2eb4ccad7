// Package pipeline composes loading, chunking and storage: the pure
// per-document transform, the async job queue used by the HTTP service and
// the parallel batch runner used by the CLI.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/parser"
	"github.com/dgallion1/mdchunk/internal/record"
	"github.com/dgallion1/mdchunk/internal/store"
)

// ChunkDocument parses, chunks, keys and emits one document. It is pure and
// safe to call concurrently.
func ChunkDocument(doc doctree.Document, s chunker.Strategy) []record.Record {
	tree := parser.Parse(doc.ID, doc.Text)
	return record.Emit(doc, s.Name(), s.Chunk(tree))
}

// outcome is the result of ingesting one loaded document.
type outcome struct {
	hash      string
	records   []record.Record
	unchanged bool
}

// ingest chunks doc and, when st is non-nil, replaces its stored chunk set.
// A document whose stored hash matches is not re-chunked; its stored
// records are returned instead. phase is told about each stage entered.
func ingest(ctx context.Context, doc doctree.Document, s chunker.Strategy, st *store.Store, stats *Stats, log *slog.Logger, phase func(JobStatus)) (outcome, error) {
	out := outcome{hash: DocumentHash(doc.Text, s)}

	if st != nil {
		prev, err := st.ContentHash(ctx, doc.ID)
		switch {
		case err == nil && prev == out.hash:
			recs, err := st.Chunks(ctx, doc.ID)
			if err != nil {
				return out, fmt.Errorf("read stored chunks: %w", err)
			}
			out.records, out.unchanged = recs, true
			return out, nil
		case err != nil && !errors.Is(err, store.ErrNotFound):
			log.Warn("content hash lookup failed, re-chunking", "error", err)
		}
	}

	phase(StatusChunking)
	start := time.Now()
	out.records = ChunkDocument(doc, s)
	if stats != nil {
		stats.Record(time.Since(start), len(out.records))
	}
	log.Info("chunked document", "chunks", len(out.records), "duration", time.Since(start))

	if st == nil {
		return out, nil
	}

	phase(StatusStoring)
	var err error
	for attempt := range MaxRetries {
		err = st.SaveDocument(ctx, doc, out.hash, s.Name(), out.records)
		if err == nil || !IsRetryable(err) {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	if err != nil {
		return out, fmt.Errorf("store chunks: %w", err)
	}
	return out, nil
}
