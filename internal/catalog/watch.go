package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce coalesces bursts of editor writes into one reload.
const debounce = 300 * time.Millisecond

// Watcher reloads a catalog directory when its YAML files change.
type Watcher struct {
	dir      string
	holder   *Holder
	onReload func(context.Context, *Catalog) error
	logger   *zap.Logger
}

// NewWatcher creates a watcher for dir. onReload, if set, runs after every
// successful reload (for example to re-seed the database).
func NewWatcher(dir string, holder *Holder, onReload func(context.Context, *Catalog) error, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{dir: dir, holder: holder, onReload: onReload, logger: logger.Named("catalog")}
}

// Run watches until ctx is cancelled. A catalog that fails to load is
// logged and the previous one keeps serving.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	err = filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.logger.Info("watching catalog", zap.String("dir", w.dir))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = fw.Add(ev.Name)
					timer.Reset(debounce)
					continue
				}
			}
			if !isCatalogFile(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("catalog change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	c, err := Load(os.DirFS(w.dir))
	if err != nil {
		w.logger.Error("catalog reload failed, keeping previous catalog", zap.Error(err))
		return
	}
	w.holder.Set(c)
	w.logger.Info("catalog reloaded",
		zap.Int("terms", len(c.Terms)),
		zap.Int("courses", len(c.Courses)),
		zap.Int("tools", len(c.Tools)),
	)
	if w.onReload != nil {
		if err := w.onReload(ctx, c); err != nil {
			w.logger.Error("applying reloaded catalog", zap.Error(err))
		}
	}
}

func isCatalogFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
