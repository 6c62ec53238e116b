package integration

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
)

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Recorder keeps per-integration usage counters in Redis. The counter is an
// accounting signal for operators, not a billing source: concurrent bumps
// may collapse.
type Recorder struct {
	cache cache
}

func NewRecorder(c cache) *Recorder {
	return &Recorder{cache: c}
}

// RecordUsage bumps the usage counter of an integration.
func (r *Recorder) RecordUsage(ctx context.Context, strategy retry.Strategy, integrationID uuid.UUID) error {
	key := "integration:usage:" + integrationID.String()

	count := 0

	val, err := r.cache.GetWithRetry(ctx, strategy, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read usage counter: %w", err)
	}

	if val != "" {
		count, err = strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("failed to parse usage counter: %w", err)
		}
	}

	if err := r.cache.SetWithRetry(ctx, strategy, key, strconv.Itoa(count+1)); err != nil {
		return fmt.Errorf("failed to write usage counter: %w", err)
	}

	return nil
}
