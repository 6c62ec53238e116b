package executionlog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifbox/notifbox/internal/model"
)

type fakeDetailRepo struct {
	mu      sync.Mutex
	created []model.ExecutionDetail
	err     error
}

func (f *fakeDetailRepo) Create(_ context.Context, d model.ExecutionDetail) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return uuid.Nil, f.err
	}

	f.created = append(f.created, d)

	return uuid.New(), nil
}

func (f *fakeDetailRepo) all() []model.ExecutionDetail {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.ExecutionDetail, len(f.created))
	copy(out, f.created)

	return out
}

func TestWriter_PreservesIssueOrder(t *testing.T) {
	repo := &fakeDetailRepo{}
	w := NewWriter(repo, 16)

	jobID := uuid.New()
	kinds := []model.DetailKind{
		model.DetailMessageCreated,
		model.DetailMessageSent,
		model.DetailProviderError,
		model.DetailLayoutNotFound,
	}

	for _, k := range kinds {
		w.Append(model.ExecutionDetail{JobID: jobID, Kind: k, Status: model.StatusPending})
	}

	w.Close()

	created := repo.all()
	require.Len(t, created, len(kinds))
	for i, k := range kinds {
		assert.Equal(t, k, created[i].Kind)
	}
}

func TestWriter_DefaultsSourceToInternal(t *testing.T) {
	repo := &fakeDetailRepo{}
	w := NewWriter(repo, 1)

	w.Append(model.ExecutionDetail{Kind: model.DetailMessageCreated})
	w.Close()

	created := repo.all()
	require.Len(t, created, 1)
	assert.Equal(t, model.SourceInternal, created[0].Source)
}

func TestWriter_WriteFailureDoesNotBlock(t *testing.T) {
	repo := &fakeDetailRepo{err: errors.New("db down")}
	w := NewWriter(repo, 1)

	// failures are logged and dropped; Close must still return
	w.Append(model.ExecutionDetail{Kind: model.DetailMessageCreated})
	w.Append(model.ExecutionDetail{Kind: model.DetailMessageSent})
	w.Close()

	assert.Empty(t, repo.all())
}

func TestWriter_AppendAfterCloseDropsEntry(t *testing.T) {
	repo := &fakeDetailRepo{}
	w := NewWriter(repo, 1)

	w.Append(model.ExecutionDetail{Kind: model.DetailMessageCreated})
	w.Close()

	// A pipeline finishing during shutdown may still issue entries; they
	// are dropped, never a panic.
	assert.NotPanics(t, func() {
		w.Append(model.ExecutionDetail{Kind: model.DetailMessageSent})
	})

	created := repo.all()
	require.Len(t, created, 1)
	assert.Equal(t, model.DetailMessageCreated, created[0].Kind)
}

func TestWriter_CloseIsIdempotent(t *testing.T) {
	w := NewWriter(&fakeDetailRepo{}, 1)

	w.Close()
	assert.NotPanics(t, func() { w.Close() })
}
