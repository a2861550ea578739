package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// startConfigWatcher watches configPath and delivers freshly compiled configs
// on the returned channel. Configs that fail to load are logged and dropped,
// keeping the current tables in place.
//
// Parameters:
//   - configPath: Full path to the config file.
//   - reg: Registry used to compile reloaded configs.
//
// Returns:
//   - *fsnotify.Watcher: A watcher the caller should close when done.
//   - <-chan *Config: Holds at most the latest pending config.
//   - error: Non-nil if the watcher cannot be created or the directory cannot be watched.
func startConfigWatcher(configPath string, reg *KeyRegistry) (*fsnotify.Watcher, <-chan *Config, error) {
	reloads := make(chan *Config, 1)
	watcher, err := startConfigWatcherWithNotifier(configPath, func() {
		cfg, err := loadConfig(configPath, reg)
		if err != nil {
			logger.Error("Failed to reload config", "path", configPath, "err", err)
			return
		}
		// Replace any config the loop has not picked up yet.
		select {
		case <-reloads:
		default:
		}
		reloads <- cfg
	})
	if err != nil {
		return nil, nil, err
	}
	return watcher, reloads, nil
}

// startConfigWatcherWithNotifier calls notify whenever configPath, or the file
// it links to, is written, created or renamed into place.
//
// Parameters:
//   - configPath: Full path to the config file.
//   - notify: Called from the watcher goroutine after debouncing.
//
// Returns:
//   - *fsnotify.Watcher: A watcher the caller should close when done.
//   - error: Non-nil if the watcher cannot be created or a directory cannot be watched.
func startConfigWatcherWithNotifier(configPath string, notify func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	linkPath, targetPath := resolveWatchPaths(configPath)
	paths := []string{linkPath}
	if targetPath != "" && targetPath != linkPath {
		paths = append(paths, targetPath)
	}

	// Watching a directory survives editors that replace the file.
	watched := make(map[string]bool)
	for _, p := range paths {
		dir := filepath.Dir(p)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close() //nolint:errcheck
			return nil, err
		}
		watched[dir] = true
	}

	go func() {
		var last time.Time
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				match := false
				for _, p := range paths {
					if shouldReloadConfig(p, filepath.Base(p), event) {
						match = true
						break
					}
				}
				if !match {
					continue
				}
				// Debounce noisy editor save patterns.
				if time.Since(last) < reloadDebounce {
					continue
				}
				last = time.Now()
				logger.Info("Config reload signalled", "event", event.Op.String(), "file", event.Name)
				notify()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watcher error", "err", err)
			}
		}
	}()
	return watcher, nil
}

// resolveWatchPaths returns the cleaned absolute config path and, if it is a
// symlink, the cleaned path of its target. The target is empty otherwise.
func resolveWatchPaths(configPath string) (string, string) {
	linkPath, err := filepath.Abs(configPath)
	if err != nil {
		linkPath = configPath
	}
	linkPath = filepath.Clean(linkPath)

	fi, err := os.Lstat(linkPath)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return linkPath, ""
	}
	target, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		return linkPath, ""
	}
	return linkPath, filepath.Clean(target)
}
