package host

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports mesh files that changed on disk. Paths are queued on a
// channel; the frame loop drains them with Pending so reloads never race a
// frame in flight.
type Watcher struct {
	watcher *fsnotify.Watcher
	tracked map[string]string // cleaned absolute path -> path as given
	changed chan string
	done    chan struct{}

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// NewWatcher watches the directories holding paths. Directories are
// watched rather than files so editors that save by rename are seen.
func NewWatcher(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("host: watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		tracked: make(map[string]string),
		changed: make(chan string, 64),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("host: watch %s: %w", p, err)
		}
		w.tracked[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("host: watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			p, ok := w.tracked[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			select {
			case w.changed <- p:
			case <-w.done:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.err = err
			w.mu.Unlock()
		}
	}
}

// Pending drains every queued change without blocking. A path saved
// several times since the last call is reported once.
func (w *Watcher) Pending() []string {
	var out []string
	seen := make(map[string]bool)
	for {
		select {
		case p := <-w.changed:
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		default:
			return out
		}
	}
}

// Err returns and clears the last error reported by the file system.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.err
	w.err = nil
	return err
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
