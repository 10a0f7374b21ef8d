package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/infrastructure/persistence/sqlite"
	"github.com/benchview/benchview/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := testCtx()
	dbPath := filepath.Join(t.TempDir(), "benchview.db")

	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLayoutSessionRepository_SaveAndLoad(t *testing.T) {
	ctx := testCtx()
	repo := sqlite.NewLayoutSessionRepository(openTestDB(t))

	// Empty database has no snapshot.
	got, err := repo.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	savedAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	session := &entity.LayoutSession{
		Version:        entity.LayoutSessionVersion,
		PanelVisible:   true,
		DockSide:       entity.DockLeft,
		WorkspaceSplit: 35,
		PanelURL:       "https://wiki.example.com/steps",
		SavedAt:        savedAt,
	}
	require.NoError(t, repo.SaveSnapshot(ctx, session))

	got, err = repo.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.DockLeft, got.DockSide)
	assert.InDelta(t, 35.0, got.WorkspaceSplit, 0.001)
	assert.Equal(t, "https://wiki.example.com/steps", got.PanelURL)
	assert.True(t, got.PanelVisible)
	assert.True(t, got.SavedAt.Equal(savedAt))
}

func TestLayoutSessionRepository_SaveReplacesPrevious(t *testing.T) {
	ctx := testCtx()
	repo := sqlite.NewLayoutSessionRepository(openTestDB(t))

	first := entity.SnapshotLayout(entity.NewLayoutState())
	require.NoError(t, repo.SaveSnapshot(ctx, first))

	state := entity.NewLayoutState()
	state.SetSplit(25)
	second := entity.SnapshotLayout(state)
	require.NoError(t, repo.SaveSnapshot(ctx, second))

	got, err := repo.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 25.0, got.WorkspaceSplit, 0.001)
}

func TestLayoutSessionRepository_NilSnapshot(t *testing.T) {
	repo := sqlite.NewLayoutSessionRepository(openTestDB(t))

	assert.Error(t, repo.SaveSnapshot(testCtx(), nil))
}
