package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/semihalev/log"

	"github.com/dnsresolver/coreresolver/blocklist"
)

// BlocklistWatcher reloads a BlockList from disk whenever the watched
// file changes, generalizing the teacher's certificate-file watcher
// (an fsnotify.Watcher over a directory, guarded by an RWMutex around
// the resource it refreshes) to blocklist hot-reload. Only the blocklist
// file is watched; upstream changes are not picked up.
type BlocklistWatcher struct {
	path string
	mode blocklist.Mode

	mu   sync.RWMutex
	list *blocklist.BlockList

	watcher *fsnotify.Watcher
	stop    chan struct{}
}

// NewBlocklistWatcher loads path once and starts watching its directory
// for writes, the same way fsnotify.Watcher must watch a directory
// rather than a bind-mounted file directly.
func NewBlocklistWatcher(path string, mode blocklist.Mode) (*BlocklistWatcher, error) {
	w := &BlocklistWatcher{path: path, mode: mode, stop: make(chan struct{})}

	if err := w.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.watcher = watcher

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	go w.run()

	return w, nil
}

func (w *BlocklistWatcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := w.reload(); err != nil {
				log.Error("blocklist reload failed", "path", w.path, "error", err.Error())
			} else {
				log.Info("blocklist reloaded", "path", w.path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("blocklist watcher error", "error", err.Error())
		case <-w.stop:
			return
		}
	}
}

func (w *BlocklistWatcher) reload() error {
	list := blocklist.New(w.mode)
	if _, err := blocklist.LoadFile(list, w.path); err != nil {
		return err
	}

	w.mu.Lock()
	w.list = list
	w.mu.Unlock()

	return nil
}

// Current returns the most recently loaded BlockList.
func (w *BlocklistWatcher) Current() *blocklist.BlockList {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.list
}

// Blocked satisfies the resolver's blockChecker interface directly, so
// a BlocklistWatcher can be handed to NewBlocklistStage in place of a
// static *blocklist.BlockList.
func (w *BlocklistWatcher) Blocked(qname string) bool {
	return w.Current().Blocked(qname)
}

// Stop halts the watch goroutine and releases the underlying inotify
// (or platform-equivalent) handle.
func (w *BlocklistWatcher) Stop() {
	close(w.stop)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
