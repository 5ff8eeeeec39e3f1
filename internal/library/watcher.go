package library

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultWatchDebounce is the quiet period after the last file event before
// the library is reloaded.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watch reloads the repository whenever its database file (or its WAL
// journal) changes, until ctx is done. Bursts of file events within debounce
// result in a single reload.
func (r *SQLiteRepository) Watch(ctx context.Context, debounce time.Duration) error {
	if r.path == "" {
		return errors.New("watch: repository has no file path")
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: SQLite replaces and creates sidecar files.
	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Debug().Str("path", r.path).Msg("Library watcher started")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	reload := func() {
		if err := r.Reload(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Str("path", r.path).Msg("Library reload failed")
		}
	}

	base := filepath.Base(r.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDatabaseFile(filepath.Base(event.Name), base) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reload)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Library watcher error")
		}
	}
}

// isDatabaseFile matches the database file and its "-wal" journal.
func isDatabaseFile(name, base string) bool {
	if name == base {
		return true
	}
	suffix, ok := strings.CutPrefix(name, base)
	return ok && suffix == "-wal"
}
