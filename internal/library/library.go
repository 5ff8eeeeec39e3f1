package library

import (
	"context"
	"errors"
	"time"
)

// ErrPermissionDenied is returned when the underlying storage cannot be read.
// Browse and search calls propagate it instead of returning empty results.
var ErrPermissionDenied = errors.New("library storage permission denied")

type Track struct {
	ID          int64
	Title       string
	ArtistID    int64
	Artist      string
	AlbumID     int64
	Album       string
	DiscNumber  int
	TrackNumber int
	Duration    time.Duration
	// Score ranks tracks in the most rated category (play count or rating).
	Score   int64
	AddedAt time.Time
	Path    string
}

type Album struct {
	ID          int64
	Title       string
	ArtistID    int64
	Artist      string
	ReleaseYear int
	TrackCount  int
}

type Artist struct {
	ID         int64
	Name       string
	AlbumCount int
	TrackCount int
}

type Playlist struct {
	ID       int64
	Title    string
	TrackIDs []int64 // in playlist order
}

// Repository exposes the currently known library entities.
// Implementations are single-writer, multi-reader: each call returns the
// latest data and never retains references to the returned slices.
type Repository interface {
	Tracks(ctx context.Context) ([]Track, error)
	Albums(ctx context.Context) ([]Album, error)
	Artists(ctx context.Context) ([]Artist, error)
	Playlists(ctx context.Context) ([]Playlist, error)

	// Subscribe registers for change notifications. Notifications are
	// delivered after the data returned by the methods above has changed.
	Subscribe() *Subscription
}
