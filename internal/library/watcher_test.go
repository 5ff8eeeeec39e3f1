package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDatabaseFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"library.db", true},
		{"library.db-wal", true},
		{"library.db-shm", false},
		{"library.db-journal", false},
		{"other.db", false},
		{"library.dbx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDatabaseFile(tt.name, "library.db"))
		})
	}
}

func TestWatch_RequiresPath(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	err := repo.Watch(context.Background(), 0)

	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	repo, err := OpenSQLite(path)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Reload(context.Background()))

	sub := repo.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- repo.Watch(ctx, 20*time.Millisecond) }()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	_, err = repo.db.Exec(`INSERT INTO playlists (id, title) VALUES (1, 'New')`)
	require.NoError(t, err)

	select {
	case n := <-sub.Changes:
		assert.Equal(t, AllPlaylists{}, n)
	case <-time.After(5 * time.Second):
		t.Fatal("no notification after database write")
	}

	cancel()
	require.NoError(t, <-done)
}
