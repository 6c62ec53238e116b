package trace

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wb-go/wbf/zlog"
)

var (
	jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifbox_jobs_processed_total",
		Help: "The total number of workflow jobs processed, by outcome",
	}, []string{"outcome"})
	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notifbox_job_duration_seconds",
		Help:    "Wall time of one workflow job from dequeue to settled outcome",
		Buckets: prometheus.DefBuckets,
	})
)

// Span is one traced unit of work. Acquire it before running the pipeline
// and end it on every exit path; End settles the span exactly once no
// matter how many times it is called.
type Span struct {
	name          string
	transactionID string
	started       time.Time
	once          sync.Once
}

// Start opens a span with a fixed semantic name.
func Start(name, transactionID string) *Span {
	zlog.Logger.Debug().
		Str("span", name).
		Str("transaction_id", transactionID).
		Msg("span started")

	return &Span{
		name:          name,
		transactionID: transactionID,
		started:       time.Now(),
	}
}

// End closes the span, recording duration and outcome.
func (s *Span) End(err error) {
	s.once.Do(func() {
		elapsed := time.Since(s.started)
		jobDuration.Observe(elapsed.Seconds())

		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		jobsProcessed.WithLabelValues(outcome).Inc()

		evt := zlog.Logger.Debug()
		if err != nil {
			evt = zlog.Logger.Error().Err(err)
		}

		evt.Str("span", s.name).
			Str("transaction_id", s.transactionID).
			Dur("duration", elapsed).
			Msg("span finished")
	})
}
