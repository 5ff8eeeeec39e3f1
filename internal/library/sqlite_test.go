package library

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbutil "github.com/llehouerou/odeon/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbutil.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, InitSchema(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func seedLibrary(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO artists (id, name) VALUES (20, 'Band'), (21, 'Singer');
		INSERT INTO albums (id, title, artist_id, release_year) VALUES
			(40, 'First', 20, 1999),
			(41, 'Alone', 21, NULL);
		INSERT INTO tracks (id, title, artist_id, album_id, disc_number, track_number, duration_ms, score, added_at, path) VALUES
			(1, 'One', 20, 40, 1, 1, 180000, 3, 1700000000, '/music/one.flac'),
			(2, 'Two', 20, 40, 1, 2, 200000, 0, 1700000100, '/music/two.flac'),
			(3, 'Solo', 21, 41, NULL, NULL, 90000, 9, 1700000200, '/music/solo.flac'),
			(4, 'Loose', NULL, NULL, NULL, NULL, 0, 0, 1700000300, '/music/loose.mp3');
		INSERT INTO playlists (id, title) VALUES (7, 'Mix'), (8, 'Empty');
		INSERT INTO playlist_tracks (playlist_id, position, track_id) VALUES (7, 0, 3), (7, 1, 1);
	`)
	require.NoError(t, err)
}

func TestSQLiteRepository_Load(t *testing.T) {
	db := setupTestDB(t)
	seedLibrary(t, db)
	repo := NewSQLiteRepository(db)

	s, err := Load(context.Background(), repo)
	require.NoError(t, err)

	require.Len(t, s.Tracks, 4)
	one, ok := s.TrackByID(1)
	require.True(t, ok)
	assert.Equal(t, "Band", one.Artist)
	assert.Equal(t, "First", one.Album)
	assert.Equal(t, 3*time.Minute, one.Duration)
	assert.Equal(t, int64(3), one.Score)
	assert.Equal(t, time.Unix(1700000000, 0), one.AddedAt)

	loose, ok := s.TrackByID(4)
	require.True(t, ok)
	assert.Zero(t, loose.ArtistID)
	assert.Zero(t, loose.AlbumID)
	assert.Empty(t, loose.Artist)

	first, ok := s.AlbumByID(40)
	require.True(t, ok)
	assert.Equal(t, 1999, first.ReleaseYear)
	assert.Equal(t, 2, first.TrackCount)

	band, ok := s.ArtistByID(20)
	require.True(t, ok)
	assert.Equal(t, 1, band.AlbumCount)
	assert.Equal(t, 2, band.TrackCount)

	mix, ok := s.PlaylistByID(7)
	require.True(t, ok)
	assert.Equal(t, []int64{3, 1}, mix.TrackIDs)
	empty, ok := s.PlaylistByID(8)
	require.True(t, ok)
	assert.Empty(t, empty.TrackIDs)
}

// Publish is synchronous and the notifications fit in the subscription
// buffer, so the changes are readable as soon as Reload returns.
func TestSQLiteRepository_ReloadPublishesDiff(t *testing.T) {
	db := setupTestDB(t)
	seedLibrary(t, db)
	repo := NewSQLiteRepository(db)
	defer repo.CloseAll()

	require.NoError(t, repo.Reload(context.Background()))
	sub := repo.Subscribe()

	_, err := db.Exec(`UPDATE albums SET title = 'First (Deluxe)' WHERE id = 40`)
	require.NoError(t, err)
	require.NoError(t, repo.Reload(context.Background()))

	// Tracks carry the album title, so they changed too.
	want := []ChangeNotification{
		AllTracks{},
		AlbumChanged{ID: 40},
		ArtistChanged{ID: 20},
		PlaylistChanged{ID: 7},
	}
	assert.Equal(t, want, drain(sub))
}

func TestSQLiteRepository_FirstLoadIsSilent(t *testing.T) {
	db := setupTestDB(t)
	seedLibrary(t, db)
	repo := NewSQLiteRepository(db)
	sub := repo.Subscribe()

	_, err := repo.Tracks(context.Background())
	require.NoError(t, err)

	assert.Empty(t, drain(sub))
}

func drain(sub *Subscription) []ChangeNotification {
	var result []ChangeNotification
	for {
		select {
		case n := <-sub.Changes:
			result = append(result, n)
		default:
			return result
		}
	}
}

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	repo, err := OpenSQLite(path)
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, path, repo.Path())
	tracks, err := repo.Tracks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestOpenSQLite_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	path := filepath.Join(t.TempDir(), "library.db")
	require.NoError(t, os.WriteFile(path, nil, 0o000))

	_, err := OpenSQLite(path)

	require.ErrorIs(t, err, ErrPermissionDenied)
}
