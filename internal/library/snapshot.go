package library

import (
	"context"
	"fmt"
)

// Snapshot is an immutable view of the repository taken at one point in time.
// It is safe to share between goroutines.
type Snapshot struct {
	Tracks    []Track
	Albums    []Album
	Artists   []Artist
	Playlists []Playlist

	trackByID    map[int64]int
	albumByID    map[int64]int
	artistByID   map[int64]int
	playlistByID map[int64]int
}

// NewSnapshot indexes the given entities. The slices are owned by the snapshot
// afterwards and must not be modified.
func NewSnapshot(tracks []Track, albums []Album, artists []Artist, playlists []Playlist) *Snapshot {
	s := &Snapshot{
		Tracks:       tracks,
		Albums:       albums,
		Artists:      artists,
		Playlists:    playlists,
		trackByID:    make(map[int64]int, len(tracks)),
		albumByID:    make(map[int64]int, len(albums)),
		artistByID:   make(map[int64]int, len(artists)),
		playlistByID: make(map[int64]int, len(playlists)),
	}
	for i := range tracks {
		s.trackByID[tracks[i].ID] = i
	}
	for i := range albums {
		s.albumByID[albums[i].ID] = i
	}
	for i := range artists {
		s.artistByID[artists[i].ID] = i
	}
	for i := range playlists {
		s.playlistByID[playlists[i].ID] = i
	}
	return s
}

// Load reads every entity list from repo and returns a snapshot of them.
func Load(ctx context.Context, repo Repository) (*Snapshot, error) {
	tracks, err := repo.Tracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	albums, err := repo.Albums(ctx)
	if err != nil {
		return nil, fmt.Errorf("load albums: %w", err)
	}
	artists, err := repo.Artists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load artists: %w", err)
	}
	playlists, err := repo.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load playlists: %w", err)
	}
	return NewSnapshot(tracks, albums, artists, playlists), nil
}

// TrackByID returns the track with the given id.
func (s *Snapshot) TrackByID(id int64) (Track, bool) {
	i, ok := s.trackByID[id]
	if !ok {
		return Track{}, false
	}
	return s.Tracks[i], true
}

// AlbumByID returns the album with the given id.
func (s *Snapshot) AlbumByID(id int64) (Album, bool) {
	i, ok := s.albumByID[id]
	if !ok {
		return Album{}, false
	}
	return s.Albums[i], true
}

// ArtistByID returns the artist with the given id.
func (s *Snapshot) ArtistByID(id int64) (Artist, bool) {
	i, ok := s.artistByID[id]
	if !ok {
		return Artist{}, false
	}
	return s.Artists[i], true
}

// PlaylistByID returns the playlist with the given id.
func (s *Snapshot) PlaylistByID(id int64) (Playlist, bool) {
	i, ok := s.playlistByID[id]
	if !ok {
		return Playlist{}, false
	}
	return s.Playlists[i], true
}
