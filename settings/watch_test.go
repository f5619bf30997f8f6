package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDefinitions(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeDefinitions(t, path, replaceYAML)

	defs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	store := NewInMemoryStore(StoreOptions{Definitions: defs})

	w, err := NewWatcher(path, store, WatcherOptions{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	updated := `
settings:
  - key: dayNightSeconds
    title: Day/Night Seconds
    bin: GAMEPLAY
    type: int
    default: 75
    min: 15
    max: 300
`
	writeDefinitions(t, path, updated)

	deadline := time.After(5 * time.Second)
	for {
		if d, ok := store.Definition("dayNightSeconds"); ok && d.Default == 75 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for definitions reload")
		case <-time.After(20 * time.Millisecond):
		}
	}

	// The dropped hardcoreMode definition should be gone after reload.
	if _, ok := store.Definition("hardcoreMode"); ok {
		t.Error("expected hardcoreMode to be removed by reload")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeDefinitions(t, path, replaceYAML)

	store := NewInMemoryStore(StoreOptions{})
	w, err := NewWatcher(path, store, WatcherOptions{})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeDefinitions(t, path, replaceYAML)

	store := NewInMemoryStore(StoreOptions{})
	w, err := NewWatcher(path, store, WatcherOptions{})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	// Stop without Start must still release the fsnotify watcher.
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("expected Start after Stop to fail on the closed watcher")
	}
}
