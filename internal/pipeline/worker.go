package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/dgallion1/mdchunk/internal/source"
	"github.com/dgallion1/mdchunk/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	store    *store.Lazy
	strategy chunker.Strategy
	stats    *Stats
	log      *slog.Logger
	loader   source.Options
}

func NewWorker(st *store.Lazy, strategy chunker.Strategy, stats *Stats, log *slog.Logger, loader source.Options) *Worker {
	return &Worker{
		store:    st,
		strategy: strategy,
		stats:    stats,
		log:      log,
		loader:   loader,
	}
}

// Process runs load, chunk and store for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	s := job.strategy
	if s == nil {
		s = w.strategy
	}

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	l, err := source.ForFile(job.Filename, w.loader)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "loading")
		return
	}
	doc, err := l.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	job.releaseFileData()
	doc.ID = job.DocID
	if job.Title != "" {
		doc.Title = job.Title
	}

	var st *store.Store
	if w.store != nil {
		if st, err = w.store.Get(); err != nil {
			log.Error("store unavailable", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
			job.SetStatus(StatusFailed, "loading")
			return
		}
	}

	// Phase 2+3: Chunk and store
	out, err := ingest(ctx, doc, s, st, w.stats, log, func(p JobStatus) {
		job.SetStatus(p, string(p))
	})
	job.SetContentHash(out.hash)
	job.SetTotalChunks(len(out.records))
	if err != nil {
		log.Error("ingest failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "storing")
		return
	}
	if out.unchanged {
		log.Info("document unchanged, skipping")
		job.SetChunksStored(len(out.records))
		job.SetStatus(StatusUnchanged, "done")
		return
	}
	if st != nil {
		job.SetChunksStored(len(out.records))
	}
	job.SetStatus(StatusCompleted, "done")
}
