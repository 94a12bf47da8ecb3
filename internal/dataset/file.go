package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// FileSource reads a local CSV or XLSX file. The parsed snapshot is reused
// until the file's size or modification time changes; Watch reloads eagerly.
type FileSource struct {
	path     string
	opts     ParseOptions
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.RWMutex
	snap    *Snapshot
	modTime time.Time
	size    int64
}

// NewFileSource creates a source for path.
func NewFileSource(path string, opts ParseOptions, logger *zap.Logger) *FileSource {
	return &FileSource{
		path:     path,
		opts:     opts,
		logger:   logger,
		debounce: defaultDebounce,
	}
}

func (s *FileSource) Name() string { return "file:" + s.path }

// Load returns the cached snapshot, re-parsing the file if it changed.
func (s *FileSource) Load(ctx context.Context) (*Snapshot, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}

	s.mu.RLock()
	snap := s.snap
	fresh := snap != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size
	s.mu.RUnlock()
	if fresh {
		return snap, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reload()
}

func (s *FileSource) reload() (*Snapshot, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}
	recipes, report, err := Parse(s.path, data, s.opts)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}

	snap := &Snapshot{
		Recipes:  recipes,
		Version:  contentVersion(data),
		LoadedAt: time.Now(),
		Report:   report,
	}

	s.mu.Lock()
	s.snap = snap
	s.modTime = info.ModTime()
	s.size = info.Size()
	s.mu.Unlock()

	s.logger.Info("dataset loaded",
		zap.String("source", s.Name()),
		zap.String("version", snap.Version),
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", report.Rejected),
		zap.Int("imputed", report.Imputed))
	return snap, nil
}

// Watch reloads the dataset whenever the file is written or replaced. It
// watches the parent directory so editors that swap files are seen. Watch
// returns once the watcher is running; it stops when ctx is cancelled.
func (s *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.logger.Debug("watching dataset", zap.String("path", s.path))

	go s.run(ctx, watcher)
	return nil
}

func (s *FileSource) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	target := filepath.Clean(s.path)
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug("dataset event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if _, err := s.reload(); err != nil {
				s.logger.Warn("dataset reload failed", zap.String("path", s.path), zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
