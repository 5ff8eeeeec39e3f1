package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixtureSnapshot() *Snapshot {
	return NewSnapshot(
		[]Track{
			{ID: 1, Title: "One", ArtistID: 20, Artist: "Band", AlbumID: 40, Album: "First", TrackNumber: 1, AddedAt: baseTime},
			{ID: 2, Title: "Two", ArtistID: 20, Artist: "Band", AlbumID: 40, Album: "First", TrackNumber: 2, AddedAt: baseTime},
			{ID: 3, Title: "Solo", ArtistID: 21, Artist: "Singer", AlbumID: 41, Album: "Alone", TrackNumber: 1, AddedAt: baseTime},
		},
		[]Album{
			{ID: 40, Title: "First", ArtistID: 20, Artist: "Band", TrackCount: 2},
			{ID: 41, Title: "Alone", ArtistID: 21, Artist: "Singer", TrackCount: 1},
		},
		[]Artist{
			{ID: 20, Name: "Band", AlbumCount: 1, TrackCount: 2},
			{ID: 21, Name: "Singer", AlbumCount: 1, TrackCount: 1},
		},
		[]Playlist{
			{ID: 7, Title: "Mix", TrackIDs: []int64{3, 1}},
			{ID: 8, Title: "Empty", TrackIDs: []int64{}},
		},
	)
}

func TestDiff_Unchanged(t *testing.T) {
	assert.Empty(t, Diff(fixtureSnapshot(), fixtureSnapshot()))
}

func TestDiff_TrackModified(t *testing.T) {
	old := fixtureSnapshot()
	s := fixtureSnapshot()
	s.Tracks[2].Score = 5
	updated := NewSnapshot(s.Tracks, s.Albums, s.Artists, s.Playlists)

	got := Diff(old, updated)

	assert.Equal(t, []ChangeNotification{
		AllTracks{},
		AlbumChanged{ID: 41},
		ArtistChanged{ID: 21},
		PlaylistChanged{ID: 7},
	}, got)
}

func TestDiff_TrackMovedBetweenAlbums(t *testing.T) {
	old := fixtureSnapshot()
	s := fixtureSnapshot()
	s.Tracks[1].AlbumID = 41
	updated := NewSnapshot(s.Tracks, s.Albums, s.Artists, s.Playlists)

	got := Diff(old, updated)

	assert.Equal(t, []ChangeNotification{
		AllTracks{},
		AlbumChanged{ID: 40},
		AlbumChanged{ID: 41},
		ArtistChanged{ID: 20},
	}, got)
}

func TestDiff_AlbumAdded(t *testing.T) {
	old := fixtureSnapshot()
	s := fixtureSnapshot()
	albums := append(s.Albums, Album{ID: 42, Title: "New", ArtistID: 21})
	updated := NewSnapshot(s.Tracks, albums, s.Artists, s.Playlists)

	got := Diff(old, updated)

	assert.Equal(t, []ChangeNotification{
		AllAlbums{},
		AlbumChanged{ID: 42},
		ArtistChanged{ID: 21},
	}, got)
}

func TestDiff_ArtistRenamed(t *testing.T) {
	old := fixtureSnapshot()
	s := fixtureSnapshot()
	s.Artists[0].Name = "The Band"
	updated := NewSnapshot(s.Tracks, s.Albums, s.Artists, s.Playlists)

	assert.Equal(t, []ChangeNotification{ArtistChanged{ID: 20}}, Diff(old, updated))
}

func TestDiff_PlaylistReordered(t *testing.T) {
	old := fixtureSnapshot()
	s := fixtureSnapshot()
	s.Playlists[0].TrackIDs = []int64{1, 3}
	updated := NewSnapshot(s.Tracks, s.Albums, s.Artists, s.Playlists)

	assert.Equal(t, []ChangeNotification{PlaylistChanged{ID: 7}}, Diff(old, updated))
}

func TestDiff_PlaylistRemoved(t *testing.T) {
	old := fixtureSnapshot()
	s := fixtureSnapshot()
	updated := NewSnapshot(s.Tracks, s.Albums, s.Artists, s.Playlists[:1])

	assert.Equal(t, []ChangeNotification{AllPlaylists{}, PlaylistChanged{ID: 8}}, Diff(old, updated))
}

func TestDiff_TrackWithoutAlbum(t *testing.T) {
	old := NewSnapshot(nil, nil, nil, nil)
	updated := NewSnapshot([]Track{{ID: 1, Title: "Loose"}}, nil, nil, nil)

	assert.Equal(t, []ChangeNotification{AllTracks{}}, Diff(old, updated))
}

func TestDiff_NilSnapshots(t *testing.T) {
	assert.Empty(t, Diff(nil, nil))
	assert.Equal(t, []ChangeNotification{AllPlaylists{}, PlaylistChanged{ID: 9}},
		Diff(nil, NewSnapshot(nil, nil, nil, []Playlist{{ID: 9}})))
}
