package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStorage_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	ctx := context.Background()
	logger := zap.NewNop()

	fs, err := NewFileStorage(path, logger)
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, finishedStatus("batch-1")))
	require.NoError(t, fs.Save(ctx, finishedStatus("batch-2")))
	require.NoError(t, fs.Close())

	// Новый экземпляр должен прочитать отчеты из файла
	reloaded, err := NewFileStorage(path, logger)
	require.NoError(t, err)
	defer reloaded.Close()

	got, err := reloaded.Get(ctx, "batch-2")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Report.Summary.TotalCount)
	assert.Equal(t, "WB2", got.Report.Results.Failed[0].RefID)
	require.NotNil(t, got.FinishedAt)
}

func TestFileStorage_LastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	ctx := context.Background()

	fs, err := NewFileStorage(path, zap.NewNop())
	require.NoError(t, err)

	status := finishedStatus("batch-1")
	require.NoError(t, fs.Save(ctx, status))
	status.Error = "second write"
	require.NoError(t, fs.Save(ctx, status))
	require.NoError(t, fs.Close())

	reloaded, err := NewFileStorage(path, zap.NewNop())
	require.NoError(t, err)
	defer reloaded.Close()

	got, err := reloaded.Get(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, "second write", got.Error)
}

func TestFileStorage_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	ctx := context.Background()

	fs, err := NewFileStorage(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, finishedStatus("batch-1")))
	require.NoError(t, fs.Save(ctx, finishedStatus("batch-2")))
	require.NoError(t, fs.Delete(ctx, "batch-1"))
	assert.ErrorIs(t, fs.Delete(ctx, "batch-1"), ErrBatchNotFound)

	// После удаления файл продолжает принимать записи
	require.NoError(t, fs.Save(ctx, finishedStatus("batch-3")))
	require.NoError(t, fs.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"batch_id":"batch-1"`)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	reloaded, err := NewFileStorage(path, zap.NewNop())
	require.NoError(t, err)
	defer reloaded.Close()

	_, err = reloaded.Get(ctx, "batch-1")
	assert.ErrorIs(t, err, ErrBatchNotFound)
	_, err = reloaded.Get(ctx, "batch-3")
	assert.NoError(t, err)
}

func TestFileStorage_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0644))

	fs, err := NewFileStorage(path, zap.NewNop())
	require.NoError(t, err)
	defer fs.Close()

	assert.NoError(t, fs.CheckConnection(context.Background()))
	_, err = fs.Get(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestFileStorage_InvalidPath(t *testing.T) {
	_, err := NewFileStorage(filepath.Join(t.TempDir(), "missing", "reports.json"), zap.NewNop())
	assert.Error(t, err)
}
