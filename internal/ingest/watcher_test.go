package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collect(t *testing.T, ch <-chan string, want int) []string {
	t.Helper()
	var got []string
	deadline := time.After(5 * time.Second)
	for len(got) < want {
		select {
		case p, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d of %d events", len(got), want)
			}
			got = append(got, p)
		case <-deadline:
			t.Fatalf("timed out after %d of %d events", len(got), want)
		}
	}
	return got
}

func TestWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stmt.pdf", "x")
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, ".hidden.pdf", "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ev, _, err := StartWatcher(ctx, WatchConfig{Root: dir, InitialScan: true}, slog.Default())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	got := collect(t, ev, 1)
	if filepath.Base(got[0]) != "stmt.pdf" {
		t.Errorf("emitted %q, want stmt.pdf", got[0])
	}

	select {
	case p := <-ev:
		t.Errorf("unexpected extra event %q", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherEmitsNewFiles(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ev, _, err := StartWatcher(ctx, WatchConfig{Root: dir, Debounce: 50 * time.Millisecond}, slog.Default())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	path := filepath.Join(dir, "receipt.png")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := collect(t, ev, 1)
	if got[0] != path {
		t.Errorf("emitted %q, want %q", got[0], path)
	}
}

func TestWatcherDebouncedBurst(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ev, _, err := StartWatcher(ctx, WatchConfig{Root: dir, Debounce: time.Millisecond}, slog.Default())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	// Kept below the channel buffer so a single flush cannot drop events
	// even if the reader lags.
	const n = 200
	seen := make(map[string]struct{}, n)
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.After(10 * time.Second)
		for len(seen) < n {
			select {
			case p, ok := <-ev:
				if !ok {
					return
				}
				seen[p] = struct{}{}
			case <-deadline:
				return
			}
		}
	}()

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("doc-%03d.pdf", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	<-done
	if len(seen) != n {
		t.Fatalf("received %d unique paths, want %d", len(seen), n)
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ev:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel not closed after cancel")
		}
	}
}

func TestWatcherRequiresRoot(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}, slog.Default()); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestWatcherClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	ev, errCh, err := StartWatcher(ctx, WatchConfig{Root: dir}, slog.Default())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}
	cancel()

	deadline := time.After(5 * time.Second)
	for ev != nil || errCh != nil {
		select {
		case _, ok := <-ev:
			if !ok {
				ev = nil
			}
		case _, ok := <-errCh:
			if !ok {
				errCh = nil
			}
		case <-deadline:
			t.Fatal("channels not closed after cancel")
		}
	}
}
