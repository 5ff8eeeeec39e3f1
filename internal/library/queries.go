package library

import (
	"cmp"
	"slices"
	"strings"
)

// TracksByTitle returns every track ordered by SortKey of the title.
// Tracks with equal keys keep repository order.
func (s *Snapshot) TracksByTitle() []Track {
	return sortedByKey(s.Tracks, func(t Track) string { return t.Title })
}

// MostRated returns at most limit tracks by descending score.
// Ties keep repository order.
func (s *Snapshot) MostRated(limit int) []Track {
	tracks := slices.Clone(s.Tracks)
	slices.SortStableFunc(tracks, func(a, b Track) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return truncate(tracks, limit)
}

// RecentlyAdded returns at most limit tracks, newest first.
func (s *Snapshot) RecentlyAdded(limit int) []Track {
	tracks := slices.Clone(s.Tracks)
	slices.SortStableFunc(tracks, func(a, b Track) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
	return truncate(tracks, limit)
}

// AlbumsByTitle returns every album ordered by SortKey of the title.
func (s *Snapshot) AlbumsByTitle() []Album {
	return sortedByKey(s.Albums, func(a Album) string { return a.Title })
}

// ArtistsByName returns every artist ordered by SortKey of the name.
func (s *Snapshot) ArtistsByName() []Artist {
	return sortedByKey(s.Artists, func(a Artist) string { return a.Name })
}

// AlbumTracks returns the tracks of an album ordered by disc then track number.
// Returns false if the album does not exist.
func (s *Snapshot) AlbumTracks(albumID int64) ([]Track, bool) {
	if _, ok := s.AlbumByID(albumID); !ok {
		return nil, false
	}
	var tracks []Track
	for _, t := range s.Tracks {
		if t.AlbumID == albumID {
			tracks = append(tracks, t)
		}
	}
	slices.SortStableFunc(tracks, func(a, b Track) int {
		if c := cmp.Compare(a.DiscNumber, b.DiscNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.TrackNumber, b.TrackNumber)
	})
	return tracks, true
}

// ArtistAlbums returns the albums of an artist by descending release year.
// Albums of the same year are ordered by title.
// Returns false if the artist does not exist.
func (s *Snapshot) ArtistAlbums(artistID int64) ([]Album, bool) {
	if _, ok := s.ArtistByID(artistID); !ok {
		return nil, false
	}
	var albums []Album
	for _, a := range s.Albums {
		if a.ArtistID == artistID {
			albums = append(albums, a)
		}
	}
	slices.SortStableFunc(albums, func(a, b Album) int {
		if c := cmp.Compare(b.ReleaseYear, a.ReleaseYear); c != 0 {
			return c
		}
		return strings.Compare(SortKey(a.Title), SortKey(b.Title))
	})
	return albums, true
}

// ArtistTracks returns the tracks of an artist ordered by title.
// Returns false if the artist does not exist.
func (s *Snapshot) ArtistTracks(artistID int64) ([]Track, bool) {
	if _, ok := s.ArtistByID(artistID); !ok {
		return nil, false
	}
	var tracks []Track
	for _, t := range s.Tracks {
		if t.ArtistID == artistID {
			tracks = append(tracks, t)
		}
	}
	return sortedByKey(tracks, func(t Track) string { return t.Title }), true
}

// PlaylistTracks returns the tracks of a playlist in playlist order.
// Ids that are not in the snapshot are skipped.
// Returns false if the playlist does not exist.
func (s *Snapshot) PlaylistTracks(playlistID int64) ([]Track, bool) {
	p, ok := s.PlaylistByID(playlistID)
	if !ok {
		return nil, false
	}
	tracks := make([]Track, 0, len(p.TrackIDs))
	for _, id := range p.TrackIDs {
		if t, ok := s.TrackByID(id); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks, true
}

// sortedByKey returns a copy of items stably sorted by SortKey(field(item)).
func sortedByKey[T any](items []T, field func(T) string) []T {
	type keyed struct {
		key  string
		item T
	}
	ks := make([]keyed, len(items))
	for i, item := range items {
		ks[i] = keyed{key: SortKey(field(item)), item: item}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})
	result := make([]T, len(ks))
	for i := range ks {
		result[i] = ks[i].item
	}
	return result
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
