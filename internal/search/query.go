// Package search ranks library entities against free-text and focused queries.
package search

import "strings"

// Query is a search request. It is one of Empty, Unspecified, Artist, Album
// or Song.
type Query interface {
	isQuery()
}

// Empty matches nothing.
type Empty struct{}

// Unspecified is a free-text query matched against artists, albums and tracks.
type Unspecified struct {
	Text string
}

// Artist matches artists by exact name.
type Artist struct {
	Name string
}

// Album matches albums by exact title, and artist when set.
type Album struct {
	Artist string
	Title  string
}

// Song matches tracks by exact title, and artist and album when set.
type Song struct {
	Artist string
	Album  string
	Title  string
}

func (Empty) isQuery()       {}
func (Unspecified) isQuery() {}
func (Artist) isQuery()      {}
func (Album) isQuery()       {}
func (Song) isQuery()        {}

// Focus is the explicit target of a structured search request.
type Focus int

const (
	FocusNone Focus = iota
	FocusArtist
	FocusAlbum
	FocusSong
)

func (f Focus) String() string {
	switch f {
	case FocusArtist:
		return "artist"
	case FocusAlbum:
		return "album"
	case FocusSong:
		return "song"
	default:
		return "none"
	}
}

// Fields holds the structured values accompanying a focused request.
type Fields struct {
	Artist string
	Album  string
	Title  string
}

// Parse builds the query for a search request. A focus whose primary field
// is blank degrades to an Unspecified query on text, and a blank text to Empty.
func Parse(text string, focus Focus, fields Fields) Query {
	artist := strings.TrimSpace(fields.Artist)
	album := strings.TrimSpace(fields.Album)
	title := strings.TrimSpace(fields.Title)

	switch focus {
	case FocusArtist:
		if artist != "" {
			return Artist{Name: artist}
		}
	case FocusAlbum:
		if album != "" {
			return Album{Artist: artist, Title: album}
		}
	case FocusSong:
		if title != "" {
			return Song{Artist: artist, Album: album, Title: title}
		}
	case FocusNone:
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Empty{}
	}
	return Unspecified{Text: text}
}
