// Package testutil provides shared test helpers for setting up state stores
// and services.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/fehu/internal/store"
	"github.com/starford/fehu/internal/taskservice"
)

// TestDB creates a temporary SQLite blob store that is automatically cleaned
// up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fehu-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestService creates a service over a temporary store.
func TestService(t *testing.T) *taskservice.Service {
	t.Helper()
	svc, err := taskservice.NewService(TestDB(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}
