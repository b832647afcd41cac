package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 4)

	w, err := New(func(_ context.Context, paths []string) error {
		changes <- paths
		return nil
	}, []string{dir},
		WithDebounce(30*time.Millisecond),
		WithFilter(func(path string) bool { return !strings.HasSuffix(path, ".c") }),
	)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	target := filepath.Join(dir, "main.md")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "generated.c"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case paths := <-changes:
		if diff := cmp.Diff([]string{target}, paths); diff != "" {
			t.Fatalf("changed paths mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}

func TestNew_Errors(t *testing.T) {
	noop := func(context.Context, []string) error { return nil }

	if _, err := New(nil, []string{t.TempDir()}); err == nil {
		t.Fatalf("expected error for nil callback")
	}
	if _, err := New(noop, nil); err == nil {
		t.Fatalf("expected error without directories")
	}
	if _, err := New(noop, []string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
