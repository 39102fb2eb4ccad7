package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/dgallion1/mdchunk/internal/config"
	"github.com/dgallion1/mdchunk/internal/source"
	"github.com/dgallion1/mdchunk/internal/store"
)

// Orchestrator manages the document ingestion pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	store    *store.Lazy
	strategy chunker.Strategy
	stats    *Stats
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator validates the chunking config and creates the pipeline.
// Workers start with Start.
func NewOrchestrator(cfg config.Config, st *store.Lazy, log *slog.Logger) (*Orchestrator, error) {
	s, err := chunker.New(cfg.Strategy, cfg.Chunk)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		store:    st,
		strategy: s,
		stats:    NewStats(time.Hour),
		log:      log,
		cfg:      cfg,
	}, nil
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	loader := source.Options{PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext}

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.strategy, o.stats, o.log, loader)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the chunk store handle for direct use by API handlers.
func (o *Orchestrator) Store() *store.Lazy {
	return o.store
}

// Strategy returns the default chunking strategy.
func (o *Orchestrator) Strategy() chunker.Strategy {
	return o.strategy
}

// Stats returns the chunking latency tracker.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
