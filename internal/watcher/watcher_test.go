package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, paths []string) (<-chan string, context.CancelFunc, <-chan error) {
	t.Helper()
	changes := make(chan string, 16)
	w := New(paths, func(p string) { changes <- p }, nil).WithDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register before the test writes
	time.Sleep(50 * time.Millisecond)
	return changes, cancel, done
}

func waitChange(t *testing.T, changes <-chan string) string {
	t.Helper()
	select {
	case p := <-changes:
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
		return ""
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte("domains: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changes, cancel, done := startWatcher(t, []string{catalogPath})
	defer cancel()

	// Other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(catalogPath, []byte("domains: [] # edited\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := waitChange(t, changes); got != catalogPath {
		t.Errorf("changed path = %s, want %s", got, catalogPath)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() = %v, want context.Canceled", err)
	}
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()

	changes, cancel, done := startWatcher(t, []string{dir})
	defer func() {
		cancel()
		<-done
	}()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "finance.yaml"), []byte("domain: finance\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := waitChange(t, changes); got != dir {
		t.Errorf("changed path = %s, want %s", got, dir)
	}
}

func TestWatchDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	changes, cancel, done := startWatcher(t, []string{path})
	defer func() {
		cancel()
		<-done
	}()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("domains: []\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	waitChange(t, changes)
	select {
	case p := <-changes:
		t.Errorf("burst of writes reported twice (%s)", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMatch(t *testing.T) {
	files := map[string]string{"/srv/catalog.yaml": "catalog.yaml"}
	dirs := map[string]string{"/srv/views": "views"}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"/srv/catalog.yaml", "catalog.yaml", true},
		{"/srv/other.yaml", "", false},
		{"/srv/views/legal.yaml", "views", true},
		{"/srv/views/legal.YML", "views", true},
		{"/srv/views/legal.yaml.swp", "", false},
		{"/srv/views/nested/legal.yaml", "", false},
	}

	for _, tt := range tests {
		got, ok := match(tt.name, files, dirs)
		if got != tt.want || ok != tt.ok {
			t.Errorf("match(%s) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
