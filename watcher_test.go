package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestShouldReloadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "default.toml")
	configBase := filepath.Base(configPath)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: configPath, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: configPath, Op: fsnotify.Create}, true},
		{"rename into place", fsnotify.Event{Name: "default.toml", Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: configPath, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: configPath, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(configPath), "other.toml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldReloadConfig(configPath, configBase, tt.event); got != tt.want {
				t.Fatalf("shouldReloadConfig(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestStartConfigWatcher_DeliversCompiledConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "default.toml")
	if err := os.WriteFile(configPath, []byte("[input]\nkeys = [\"A\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	watcher, reloads, err := startConfigWatcher(configPath, testRegistry())
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	t.Cleanup(func() {
		_ = watcher.Close()
	})

	// Give fsnotify a moment to attach.
	time.Sleep(50 * time.Millisecond)

	// Replace atomically so the reload never sees a half-written file.
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte("[input]\nkeys = [\"A\", \"B\"]\n"), 0o644); err != nil {
		t.Fatalf("write config changed: %v", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		t.Fatalf("rename config: %v", err)
	}

	select {
	case cfg := <-reloads:
		if len(cfg.Participants) != 2 {
			t.Fatalf("expected 2 chord keys after reload, got %d", len(cfg.Participants))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected reloaded config after modifying the file")
	}
}

func TestStartConfigWatcher_SymlinkTargetChangeTriggersReload(t *testing.T) {
	tempRoot := t.TempDir()
	linkDir := filepath.Join(tempRoot, "link")
	targetDir := filepath.Join(tempRoot, "target")

	if err := os.MkdirAll(linkDir, 0o755); err != nil {
		t.Fatalf("mkdir linkDir: %v", err)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		t.Fatalf("mkdir targetDir: %v", err)
	}

	targetPath := filepath.Join(targetDir, "default.toml")
	linkPath := filepath.Join(linkDir, "default.toml")

	if err := os.WriteFile(targetPath, []byte("[input]\n"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	if err := os.Symlink(targetPath, linkPath); err != nil {
		t.Skipf("symlink not available on this system: %v", err)
	}

	reloadCh := make(chan struct{}, 10)
	watcher, err := startConfigWatcherWithNotifier(linkPath, func() {
		select {
		case reloadCh <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	t.Cleanup(func() {
		_ = watcher.Close()
	})

	// Give fsnotify a moment to attach.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(targetPath, []byte("[input]\n# changed\n"), 0o644); err != nil {
		t.Fatalf("write target changed: %v", err)
	}

	select {
	case <-reloadCh:
		// ok
	case <-time.After(2 * time.Second):
		t.Fatalf("expected reload signal after modifying symlink target")
	}
}

func TestResolveWatchPaths(t *testing.T) {
	tempRoot := t.TempDir()
	targetPath := filepath.Join(tempRoot, "target.toml")
	linkPath := filepath.Join(tempRoot, "default.toml")

	if err := os.WriteFile(targetPath, []byte("ok\n"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	gotLink, gotTarget := resolveWatchPaths(targetPath)
	if gotLink != filepath.Clean(targetPath) || gotTarget != "" {
		t.Fatalf("regular file: got (%q, %q)", gotLink, gotTarget)
	}

	if err := os.Symlink(targetPath, linkPath); err != nil {
		t.Skipf("symlink not available on this system: %v", err)
	}
	gotLink, gotTarget = resolveWatchPaths(linkPath)
	if gotLink == "" {
		t.Fatalf("expected non-empty link path")
	}
	if gotTarget == "" {
		t.Fatalf("expected non-empty target path for symlink")
	}
}
