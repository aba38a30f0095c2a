package app

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// watchPollInterval is the fallback poll for stores without a local file
	// (postgres, mysql, mongo) and for missed file events.
	watchPollInterval = 2 * time.Second
	watchDebounce     = 500 * time.Millisecond
)

// sessionWatcher detects external modifications of the stored session (e.g.
// from the MCP standalone process) and reloads it. SQLite files are watched
// with fsnotify; every store is also polled.
type sessionWatcher struct {
	ctx      context.Context
	path     string // sqlite file, "" when the store is not file-backed
	interval time.Duration
	reload   func(ctx context.Context) (bool, error)
	onReload func()

	mu     sync.Mutex
	timer  *time.Timer
	stopCh chan struct{}
	done   sync.WaitGroup
	fsw    *fsnotify.Watcher
}

func newSessionWatcher(ctx context.Context, path string, reload func(ctx context.Context) (bool, error), onReload func()) *sessionWatcher {
	return &sessionWatcher{ctx: ctx, path: path, interval: watchPollInterval, reload: reload, onReload: onReload}
}

// Start begins watching. Should be called once on app startup.
func (w *sessionWatcher) Start() {
	w.stopCh = make(chan struct{})
	if w.path != "" {
		w.watchFile()
	}
	w.done.Add(1)
	go w.pollLoop(w.stopCh)
}

// Stop terminates the watcher and waits for its goroutines.
func (w *sessionWatcher) Stop() {
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	w.stopCh = nil
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.done.Wait()
}

// watchFile watches the directory of the sqlite file: WAL mode writes land in
// the -wal and -shm siblings before they reach the main file.
func (w *sessionWatcher) watchFile() {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[WATCH] failed to create watcher: %v", err)
		return
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		log.Printf("[WATCH] failed to watch dir %q: %v", dir, err)
		fsw.Close()
		return
	}
	w.fsw = fsw

	base := filepath.Base(w.path)
	stop := w.stopCh
	w.done.Add(1)
	go func() {
		defer w.done.Done()
		for {
			select {
			case <-stop:
				return
			case <-w.ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasPrefix(filepath.Base(event.Name), base) {
					continue
				}
				w.schedule()
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Printf("[WATCH] error: %v", err)
			}
		}
	}()
	log.Printf("[WATCH] watching %s", w.path)
}

// schedule debounces bursts of file events into one check.
func (w *sessionWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, w.check)
}

func (w *sessionWatcher) pollLoop(stop <-chan struct{}) {
	defer w.done.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-stop:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *sessionWatcher) check() {
	changed, err := w.reload(w.ctx)
	if err != nil {
		log.Printf("[WATCH] reload: %v", err)
		return
	}
	if changed && w.onReload != nil {
		w.onReload()
	}
}
