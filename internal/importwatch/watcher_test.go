package importwatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/fehu/internal/ledger"
	"github.com/starford/fehu/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_ImportsDroppedDocument(t *testing.T) {
	svc := testutil.TestService(t)
	dropDir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, svc, dropDir, logger)
	time.Sleep(100 * time.Millisecond)

	doc := `{"tasks":[{"id":"t1","title":"file taxes","createdAt":1,"updatedAt":1,` +
		`"energySide":"takes","moneySide":"takes","energyScore":-4,"moneyScore":-4,` +
		`"source":"suggested"}],"version":1}`
	path := filepath.Join(dropDir, "export.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return len(svc.ListTasks(ctx, ledger.NewFilter())) == 1
	}, "dropped document not imported")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(path + ".imported")
		return err == nil
	}, "imported document not renamed")
}

func TestWatcher_BadDocumentMarkedFailed(t *testing.T) {
	svc := testutil.TestService(t)
	dropDir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, svc, dropDir, logger)
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dropDir, "garbage.json")
	if err := os.WriteFile(path, []byte("not a snapshot"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(path + ".failed")
		return err == nil
	}, "bad document not marked failed")

	if got := len(svc.ListTasks(ctx, ledger.NewFilter())); got != 0 {
		t.Errorf("tasks = %d, want 0 after rejected import", got)
	}
}

func TestWatcher_IgnoresNonJSON(t *testing.T) {
	svc := testutil.TestService(t)
	dropDir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, svc, dropDir, logger)
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dropDir, "notes.txt")
	if err := os.WriteFile(path, []byte(`{"tasks":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the watcher time to (not) act.
	time.Sleep(500 * time.Millisecond)
	if _, err := os.Stat(path); err != nil {
		t.Error("non-json file should be untouched")
	}
}
