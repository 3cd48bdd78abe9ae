// Package importwatch watches a drop directory for exported state documents
// and feeds them into the import pathway. Dropping a .json file into the
// directory is the headless equivalent of the file-open import affordance.
package importwatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/fehu/internal/taskservice"
)

// debounce coalesces the write bursts editors and copies produce for one
// file before the import is attempted.
const debounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on dir and processes dropped documents
// until ctx is cancelled. Each successfully imported file is renamed with an
// .imported suffix; files that fail to import are renamed with .failed so
// they are not retried.
func Watch(ctx context.Context, svc *taskservice.Service, dir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("import watcher: started", slog.String("dir", dir))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(path string) {
		pending[path] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("import watcher: stopped")
			return nil

		case <-timerCh:
			for path := range pending {
				delete(pending, path)
				importFile(ctx, svc, path, logger)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			schedule(ev.Name)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("import watcher: error", slog.String("error", err.Error()))
		}
	}
}

func importFile(ctx context.Context, svc *taskservice.Service, path string, logger *slog.Logger) {
	blob, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("import watcher: read failed",
			slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	if err := svc.ImportState(ctx, blob); err != nil {
		logger.Warn("import watcher: import rejected",
			slog.String("path", path), slog.String("error", err.Error()))
		markFile(path, ".failed", logger)
		return
	}

	logger.Info("import watcher: state imported", slog.String("path", path))
	markFile(path, ".imported", logger)
}

// markFile renames a processed document so it is not picked up again.
func markFile(path, suffix string, logger *slog.Logger) {
	dest := path + suffix
	if err := os.Rename(path, dest); err != nil {
		logger.Warn("import watcher: rename failed",
			slog.String("path", path),
			slog.String("dest", filepath.Base(dest)),
			slog.String("error", err.Error()))
	}
}
