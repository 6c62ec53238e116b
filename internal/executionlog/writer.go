package executionlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/notifbox/notifbox/internal/model"
)

type detailRepository interface {
	Create(ctx context.Context, d model.ExecutionDetail) (uuid.UUID, error)
}

// Writer is the append-only audit sink. Appends return immediately; a single
// background goroutine drains the buffer, so entries reach the store in the
// exact order callers issued them. A write failure is logged and dropped;
// the audit trail must never fail the pipeline.
type Writer struct {
	repo    detailRepository
	entries chan model.ExecutionDetail
	wg      sync.WaitGroup
	once    sync.Once

	mu     sync.RWMutex
	closed bool

	writeTimeout time.Duration
}

// NewWriter creates a writer with the given buffer size and starts its drain
// goroutine.
func NewWriter(repo detailRepository, buffer int) *Writer {
	w := &Writer{
		repo:         repo,
		entries:      make(chan model.ExecutionDetail, buffer),
		writeTimeout: 5 * time.Second,
	}

	w.wg.Add(1)
	go w.drain()

	return w
}

// Append queues one audit entry. It blocks only when the buffer is full,
// which keeps issue order intact under backpressure. An entry issued after
// Close is logged and dropped; a pipeline still finishing during shutdown
// must not crash the process.
func (w *Writer) Append(d model.ExecutionDetail) {
	if d.Source == "" {
		d.Source = model.SourceInternal
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		zlog.Logger.Warn().
			Str("detail_kind", string(d.Kind)).
			Str("job_id", d.JobID.String()).
			Msg("execution detail issued after writer close, dropping")
		return
	}

	w.entries <- d
}

// Close stops accepting entries and blocks until queued entries are written.
func (w *Writer) Close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()

		close(w.entries)
	})
	w.wg.Wait()
}

func (w *Writer) drain() {
	defer w.wg.Done()

	for d := range w.entries {
		ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)

		if _, err := w.repo.Create(ctx, d); err != nil {
			zlog.Logger.Error().
				Err(err).
				Str("detail_kind", string(d.Kind)).
				Str("job_id", d.JobID.String()).
				Msg("failed to write execution detail")
		}

		cancel()
	}
}
