package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a definition file when it changes on disk. Reloaded files
// arrive on Files; the host drains it from its own loop and calls Apply, so
// the engine is only ever touched from that loop.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher

	files chan *File
	errs  chan error
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// Watch starts watching path. The directory is watched rather than the
// file so editors that replace the file on save are still seen.
func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	w := &Watcher{
		path:     path,
		debounce: defaultDebounce,
		fs:       fw,
		files:    make(chan *File, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Files delivers each successfully reloaded file. Only the latest reload is
// kept if the host falls behind.
func (w *Watcher) Files() <-chan *File { return w.files }

// Errors delivers reload and watch errors. Errors are dropped while one is
// already pending.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) reload() {
	f, err := Load(w.path)
	if err != nil {
		w.report(fmt.Errorf("reload definitions: %w", err))
		return
	}
	select {
	case <-w.files:
	default:
	}
	w.files <- f
}

func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
