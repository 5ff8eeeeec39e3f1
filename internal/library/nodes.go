package library

import (
	"strconv"
	"time"

	"github.com/llehouerou/odeon/internal/mediaid"
)

// Extras carries the small set of display metadata attached to a node.
type Extras struct {
	Duration    time.Duration
	DiscNumber  int
	TrackNumber int
	TrackCount  int
}

// Node is a display projection of a tree entry. Nodes are built fresh from a
// snapshot for every call and never mutated afterwards.
//
// Root, type and category nodes (albums, artists and playlists included) are
// browsable and never playable. Track nodes are playable and never browsable.
type Node struct {
	MediaID   mediaid.MediaID
	Title     string
	Subtitle  string
	Browsable bool
	Playable  bool
	Extras    Extras
}

// RootNode returns the node of the tree root.
func RootNode() Node {
	return Node{MediaID: mediaid.Root, Title: "Library", Browsable: true}
}

// TypeNode returns the node listing every entity of a type.
func TypeNode(t mediaid.Type) Node {
	return Node{MediaID: mediaid.ForType(t), Title: typeTitle(t), Browsable: true}
}

func typeTitle(t mediaid.Type) string {
	switch t {
	case mediaid.TypeTracks:
		return "Tracks"
	case mediaid.TypeAlbums:
		return "Albums"
	case mediaid.TypeArtists:
		return "Artists"
	case mediaid.TypePlaylists:
		return "Playlists"
	default:
		return ""
	}
}

// CategoryNode returns the node of one of the fixed track categories.
func CategoryNode(category string) Node {
	return Node{
		MediaID:   mediaid.ForCategory(mediaid.TypeTracks, category),
		Title:     categoryTitle(category),
		Browsable: true,
	}
}

func categoryTitle(category string) string {
	switch category {
	case mediaid.CategoryAll:
		return "All tracks"
	case mediaid.CategoryMostRated:
		return "Most rated"
	case mediaid.CategoryRecentlyAdded:
		return "Recently added"
	default:
		return category
	}
}

// AlbumNode returns the browsable node of an album.
func AlbumNode(a Album) Node {
	return Node{
		MediaID:   mediaid.ForEntity(mediaid.TypeAlbums, a.ID),
		Title:     a.Title,
		Subtitle:  a.Artist,
		Browsable: true,
		Extras:    Extras{TrackCount: a.TrackCount},
	}
}

// ArtistNode returns the browsable node of an artist.
func ArtistNode(a Artist) Node {
	return Node{
		MediaID:   mediaid.ForEntity(mediaid.TypeArtists, a.ID),
		Title:     a.Name,
		Subtitle:  countLabel(a.AlbumCount, "album") + ", " + countLabel(a.TrackCount, "track"),
		Browsable: true,
		Extras:    Extras{TrackCount: a.TrackCount},
	}
}

// PlaylistNode returns the browsable node of a playlist.
func PlaylistNode(p Playlist) Node {
	return Node{
		MediaID:   mediaid.ForEntity(mediaid.TypePlaylists, p.ID),
		Title:     p.Title,
		Subtitle:  countLabel(len(p.TrackIDs), "track"),
		Browsable: true,
		Extras:    Extras{TrackCount: len(p.TrackIDs)},
	}
}

// TrackNode returns the playable leaf of a track under the given browsable parent.
func TrackNode(parent mediaid.MediaID, t Track) Node {
	return Node{
		MediaID:  mediaid.ForTrack(parent.Type, parent.Category, t.ID),
		Title:    t.Title,
		Subtitle: t.Artist,
		Playable: true,
		Extras: Extras{
			Duration:    t.Duration,
			DiscNumber:  t.DiscNumber,
			TrackNumber: t.TrackNumber,
		},
	}
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
