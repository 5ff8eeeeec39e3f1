package library

import "strconv"

// ChangeNotification describes an entity-level mutation of the repository.
// The set of implementations is closed: AllTracks, AllAlbums, AllArtists,
// AllPlaylists, AlbumChanged, ArtistChanged and PlaylistChanged.
type ChangeNotification interface {
	String() string
	isChangeNotification()
}

// AllTracks signals that the set of tracks or any track field changed.
type AllTracks struct{}

// AllAlbums signals that albums were added or removed.
type AllAlbums struct{}

// AllArtists signals that artists were added or removed.
type AllArtists struct{}

// AllPlaylists signals that playlists were added or removed.
type AllPlaylists struct{}

// AlbumChanged signals that one album or its tracks changed.
type AlbumChanged struct{ ID int64 }

// ArtistChanged signals that one artist, its albums or its tracks changed.
type ArtistChanged struct{ ID int64 }

// PlaylistChanged signals that one playlist or its track list changed.
type PlaylistChanged struct{ ID int64 }

func (AllTracks) isChangeNotification()       {}
func (AllAlbums) isChangeNotification()       {}
func (AllArtists) isChangeNotification()      {}
func (AllPlaylists) isChangeNotification()    {}
func (AlbumChanged) isChangeNotification()    {}
func (ArtistChanged) isChangeNotification()   {}
func (PlaylistChanged) isChangeNotification() {}

func (AllTracks) String() string      { return "AllTracks" }
func (AllAlbums) String() string      { return "AllAlbums" }
func (AllArtists) String() string     { return "AllArtists" }
func (AllPlaylists) String() string   { return "AllPlaylists" }
func (n AlbumChanged) String() string { return "Album(" + strconv.FormatInt(n.ID, 10) + ")" }

func (n ArtistChanged) String() string {
	return "Artist(" + strconv.FormatInt(n.ID, 10) + ")"
}

func (n PlaylistChanged) String() string {
	return "Playlist(" + strconv.FormatInt(n.ID, 10) + ")"
}
