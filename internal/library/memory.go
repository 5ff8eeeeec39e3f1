package library

import (
	"context"
	"slices"
	"sync"
)

// Verify MemoryRepository implements Repository at compile time.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory Repository.
// It has a single writer (the Set*/Replace methods) and any number of readers.
type MemoryRepository struct {
	Broadcaster

	mu        sync.RWMutex
	snapshot  *Snapshot
	readErr   error
	writeLock sync.Mutex
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snapshot: NewSnapshot(nil, nil, nil, nil)}
}

func (r *MemoryRepository) current() (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, r.readErr
}

func (r *MemoryRepository) Tracks(_ context.Context) ([]Track, error) {
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.Tracks), nil
}

func (r *MemoryRepository) Albums(_ context.Context) ([]Album, error) {
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.Albums), nil
}

func (r *MemoryRepository) Artists(_ context.Context) ([]Artist, error) {
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.Artists), nil
}

func (r *MemoryRepository) Playlists(_ context.Context) ([]Playlist, error) {
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	playlists := make([]Playlist, len(s.Playlists))
	for i, p := range s.Playlists {
		p.TrackIDs = slices.Clone(p.TrackIDs)
		playlists[i] = p
	}
	return playlists, nil
}

// Replace swaps the whole content and publishes the notifications computed by Diff.
func (r *MemoryRepository) Replace(tracks []Track, albums []Album, artists []Artist, playlists []Playlist) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	updated := NewSnapshot(slices.Clone(tracks), slices.Clone(albums), slices.Clone(artists), clonePlaylists(playlists))

	r.mu.Lock()
	old := r.snapshot
	r.snapshot = updated
	r.mu.Unlock()

	r.Publish(Diff(old, updated)...)
}

// SetTracks replaces the tracks and publishes AllTracks.
func (r *MemoryRepository) SetTracks(tracks ...Track) {
	r.update(func(s *Snapshot) *Snapshot {
		return NewSnapshot(slices.Clone(tracks), s.Albums, s.Artists, s.Playlists)
	}, AllTracks{})
}

// SetAlbums replaces the albums and publishes AllAlbums.
func (r *MemoryRepository) SetAlbums(albums ...Album) {
	r.update(func(s *Snapshot) *Snapshot {
		return NewSnapshot(s.Tracks, slices.Clone(albums), s.Artists, s.Playlists)
	}, AllAlbums{})
}

// SetArtists replaces the artists and publishes AllArtists.
func (r *MemoryRepository) SetArtists(artists ...Artist) {
	r.update(func(s *Snapshot) *Snapshot {
		return NewSnapshot(s.Tracks, s.Albums, slices.Clone(artists), s.Playlists)
	}, AllArtists{})
}

// SetPlaylists replaces the playlists and publishes AllPlaylists.
func (r *MemoryRepository) SetPlaylists(playlists ...Playlist) {
	r.update(func(s *Snapshot) *Snapshot {
		return NewSnapshot(s.Tracks, s.Albums, s.Artists, clonePlaylists(playlists))
	}, AllPlaylists{})
}

// UpdatePlaylist replaces one playlist (or adds it) and publishes PlaylistChanged.
func (r *MemoryRepository) UpdatePlaylist(p Playlist) {
	r.update(func(s *Snapshot) *Snapshot {
		playlists := clonePlaylists(s.Playlists)
		p.TrackIDs = slices.Clone(p.TrackIDs)
		if i, ok := s.playlistByID[p.ID]; ok {
			playlists[i] = p
		} else {
			playlists = append(playlists, p)
		}
		return NewSnapshot(s.Tracks, s.Albums, s.Artists, playlists)
	}, PlaylistChanged{ID: p.ID})
}

// SetReadError makes every read fail with err until cleared with nil.
func (r *MemoryRepository) SetReadError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readErr = err
}

// Notify publishes notifications without changing data.
func (r *MemoryRepository) Notify(notifications ...ChangeNotification) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()
	r.Publish(notifications...)
}

func (r *MemoryRepository) update(fn func(*Snapshot) *Snapshot, n ChangeNotification) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	r.mu.Lock()
	r.snapshot = fn(r.snapshot)
	r.mu.Unlock()

	r.Publish(n)
}

func clonePlaylists(playlists []Playlist) []Playlist {
	result := make([]Playlist, len(playlists))
	for i, p := range playlists {
		p.TrackIDs = slices.Clone(p.TrackIDs)
		result[i] = p
	}
	return result
}
