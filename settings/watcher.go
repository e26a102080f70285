package settings

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a settings file into a bus whenever it changes on disk.
// Reloads run on the watcher's own goroutine, so listeners on the bus are
// invoked from there too.
type Watcher struct {
	fw      *fsnotify.Watcher
	bus     *Bus
	path    string
	wg      sync.WaitGroup
	reloads atomic.Int64
}

// Watch starts watching path. The parent directory is watched rather than
// the file itself so that editors which save by rename are picked up.
func Watch(bus *Bus, path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("settings: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("settings: watch %s: %w", path, err)
	}

	w := &Watcher{fw: fw, bus: bus, path: filepath.Clean(abs)}
	w.wg.Add(1)
	go w.loop()
	slogger().Info("watching settings file", "path", w.path)
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slogger().Warn("settings watcher error", "path", w.path, "error", err)
		}
	}
}

// reload never fails the watcher: a half-written or invalid file is logged
// and the previous values stay in effect.
func (w *Watcher) reload() {
	if err := w.bus.LoadFile(w.path); err != nil {
		slogger().Warn("settings reload failed", "path", w.path, "error", err)
		return
	}
	w.reloads.Add(1)
	slogger().Info("settings reloaded", "path", w.path)
}

// Reloads returns the number of successful reloads so far.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	w.wg.Wait()
	return err
}
