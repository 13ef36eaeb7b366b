package classifier

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a model file into an Adapter whenever the file changes
type Watcher struct {
	path      string
	adapter   *Adapter
	fsWatcher *fsnotify.Watcher
	logger    *zap.Logger

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewWatcher creates a watcher for the model file at path
func NewWatcher(path string, adapter *Adapter, logger *zap.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		path:      absPath,
		adapter:   adapter,
		fsWatcher: fsWatcher,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so that editors
// replacing the file by rename are noticed.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch model directory: %w", err)
	}

	w.wg.Add(1)
	go w.eventLoop()

	w.logger.Info("Watching model file", zap.String("path", w.path))
	return nil
}

// Stop shuts the watcher down
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(reloadDebounce)
			reload = timer.C

		case <-reload:
			reload = nil
			w.Reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Model watcher error", zap.Error(err))
		}
	}
}

// Reload loads the file and swaps it in. A file that fails to load leaves
// the current model in place.
func (w *Watcher) Reload() {
	loaded, err := LoadModelFile(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload model, keeping current model",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}

	w.adapter.Swap(loaded.Model, loaded.Dimension)
	w.logger.Info("Reloaded model",
		zap.String("path", w.path),
		zap.String("version", loaded.Metadata.Version),
		zap.String("last_updated", loaded.Metadata.LastUpdated))
}
