package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
)

type fakeCache struct {
	values map[string]string
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) GetWithRetry(_ context.Context, _ retry.Strategy, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}

	val, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}

	return val, nil
}

func (f *fakeCache) SetWithRetry(_ context.Context, _ retry.Strategy, key string, value interface{}) error {
	if f.setErr != nil {
		return f.setErr
	}

	f.values[key] = value.(string)
	return nil
}

func TestRecordUsage(t *testing.T) {
	cache := newFakeCache()
	rec := NewRecorder(cache)

	id := uuid.New()
	strategy := retry.Strategy{}
	key := "integration:usage:" + id.String()

	require.NoError(t, rec.RecordUsage(context.Background(), strategy, id))
	assert.Equal(t, "1", cache.values[key])

	require.NoError(t, rec.RecordUsage(context.Background(), strategy, id))
	require.NoError(t, rec.RecordUsage(context.Background(), strategy, id))
	assert.Equal(t, "3", cache.values[key])
}

func TestRecordUsage_ReadError(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")

	rec := NewRecorder(cache)

	err := rec.RecordUsage(context.Background(), retry.Strategy{}, uuid.New())
	assert.Error(t, err)
}

func TestRecordUsage_GarbageCounter(t *testing.T) {
	cache := newFakeCache()
	rec := NewRecorder(cache)

	id := uuid.New()
	cache.values["integration:usage:"+id.String()] = "not-a-number"

	err := rec.RecordUsage(context.Background(), retry.Strategy{}, id)
	assert.Error(t, err)
}
