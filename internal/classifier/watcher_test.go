package classifier

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherReloadsChangedModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model_type":"rules","threshold":2,"version":"1"}`), 0o644))

	adapter := NewAdapter(zap.NewNop(), 0)
	watcher, err := NewWatcher(path, adapter, zap.NewNop())
	require.NoError(t, err)

	watcher.Reload()
	model, _ := adapter.Current()
	require.NotNil(t, model)
	assert.Equal(t, "rules-1", model.Name())

	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"model_type":"rules","threshold":2,"version":"2"}`), 0o644))

	assert.Eventually(t, func() bool {
		model, _ := adapter.Current()
		return model != nil && model.Name() == "rules-2"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherKeepsModelOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model_type":"rules","threshold":2,"version":"1"}`), 0o644))

	adapter := NewAdapter(zap.NewNop(), 0)
	watcher, err := NewWatcher(path, adapter, zap.NewNop())
	require.NoError(t, err)
	watcher.Reload()

	require.NoError(t, os.WriteFile(path, []byte(`{"model_type":"forest"}`), 0o644))
	watcher.Reload()

	model, _ := adapter.Current()
	require.NotNil(t, model)
	assert.Equal(t, "rules-1", model.Name())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	adapter := NewAdapter(zap.NewNop(), 0)
	watcher, err := NewWatcher(filepath.Join(t.TempDir(), "model.json"), adapter, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, watcher.Start())

	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}
