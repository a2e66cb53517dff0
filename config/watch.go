package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"TuneMart/logger"
)

// Watch observes the .env override file and invokes onChange whenever it is
// written or recreated. The server wires onChange to drop the featured feed
// cache keys so a config edit takes effect without waiting out the TTL.
//
// The returned stop function closes the watcher. If the file does not exist
// yet, its directory is watched so a later creation is still picked up.
func Watch(envFile string, onChange func()) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(envFile)
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	target, _ := filepath.Abs(envFile)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				name, _ := filepath.Abs(event.Name)
				if name != target {
					continue
				}
				logger.Info("config file changed, notifying",
					logger.String("file", envFile),
				)
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", logger.ErrorField(err))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
