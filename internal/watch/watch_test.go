package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_articles.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Several writes in a burst coalesce into one notification.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{"a":{}}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	select {
	case <-w.Changed():
		t.Error("expected writes to be debounced into one change")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_articles.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
		t.Error("change reported for a different file")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherStartTwice(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "x.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "x.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Stop()
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}
