package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/store/memstore"
)

func TestPruneImportHistory(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)
	now := time.Now()

	store.AddImportRun(core.ImportRun{ID: uuid.New(), FileName: "old.csv", CreatedAt: now.Add(-100 * 24 * time.Hour)})
	store.AddImportRun(core.ImportRun{ID: uuid.New(), FileName: "recent.csv", CreatedAt: now.Add(-time.Hour)})

	n, err := svc.PruneImportHistory(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	runs, err := svc.ListImportRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "recent.csv", runs[0].FileName)
}

func TestPruneImportHistory_Errors(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)

	_, err := svc.PruneImportHistory(context.Background(), 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	store.FailOn = map[string]error{"delete_import_runs": errors.New("connection reset")}
	_, err = svc.PruneImportHistory(context.Background(), time.Hour)
	assert.ErrorIs(t, err, core.ErrPersistence)
}

func TestStartImportHistoryPruner_StopsWithContext(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewService(store, nil, nil)
	store.AddImportRun(core.ImportRun{ID: uuid.New(), CreatedAt: time.Now().Add(-48 * time.Hour)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartImportHistoryPruner(ctx, core.RetentionConfig{Retention: 24 * time.Hour, Interval: time.Hour})
		close(done)
	}()

	require.Eventually(t, func() bool {
		runs, _ := svc.ListImportRuns(context.Background(), 10)
		return len(runs) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}

func TestStartImportHistoryPruner_DisabledReturns(t *testing.T) {
	svc := core.NewService(memstore.New(nil), nil, nil)
	svc.StartImportHistoryPruner(context.Background(), core.RetentionConfig{})
}
