package allocator

import (
	"log"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig installs a hot-reload watch on path: on write or create events
// the file is re-parsed and the whole new Config is atomically swapped into
// the collector's live config (§4.15). The collector reads the growth ratio
// from it at every collection and the initial threshold whenever its
// counters are reset; maybe_collect itself reads no config.
//
// The returned stop function closes the watcher. Collection itself is never
// blocked on the watcher: WatchConfig runs its own goroutine and only ever
// publishes a new *Config via atomic store.
func WatchConfig(path string) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	gc := State().gc

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

				cfg, err := LoadConfig(path)
				if err != nil {
					log.Printf("allocator: config reload of %q failed, keeping previous config: %v", path, err)
					continue
				}

				gc.cfg.store(cfg)
				log.Printf("allocator: reloaded config from %q (threshold=%d growth=%d/%d)",
					path, cfg.InitialThresholdBytes, cfg.GrowthNumerator, cfg.GrowthDenominator)
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}

				log.Printf("allocator: config watcher error: %v", watchErr)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
