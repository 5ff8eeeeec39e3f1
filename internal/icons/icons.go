package icons

import (
	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/playback"
)

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Folder    string
	Audio     string
	Artist    string
	Album     string
	Playlist  string
	Shuffle   string
	RepeatAll string
	RepeatOne string
	Favorite  string
}

var (
	nerdIcons = Icons{
		Folder:    "\uf07b ", // nf-fa-folder
		Audio:     "\uf001 ", // nf-fa-music
		Artist:    "\uf007 ", // nf-fa-user
		Album:     "󰀥 ",      // nf-md-album
		Playlist:  "󰲸 ",      // nf-md-playlist_music
		Shuffle:   "󰒟",       // nf-md-shuffle
		RepeatAll: "󰑖",       // nf-md-repeat
		RepeatOne: "󰑘",       // nf-md-repeat_once
		Favorite:  "󰣐 ",      // nf-md-heart
	}

	unicodeIcons = Icons{
		Folder:    "📁 ",
		Audio:     "🎵 ",
		Artist:    "👤 ",
		Album:     "💿 ",
		Playlist:  "📋 ",
		Shuffle:   "🔀",
		RepeatAll: "🔁",
		RepeatOne: "🔂",
		Favorite:  "♥ ",
	}

	// noneIcons leaves names untouched and spells out the modes.
	noneIcons = Icons{
		Shuffle:   "[S]",
		RepeatAll: "[R]",
		RepeatOne: "[1]",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init selects the icon set. Unknown styles fall back to none.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

// Valid reports whether style names a known icon set.
func Valid(style string) bool {
	switch Style(style) {
	case StyleNerd, StyleUnicode, StyleNone:
		return true
	}
	return false
}

// For returns the prefix icon of the node with the given id.
func For(id mediaid.MediaID) string {
	if id.IsLeaf() {
		return current.Audio
	}
	if id.Category == "" {
		return current.Folder
	}
	switch id.Type {
	case mediaid.TypeArtists:
		return current.Artist
	case mediaid.TypeAlbums:
		return current.Album
	case mediaid.TypePlaylists:
		return current.Playlist
	case mediaid.TypeTracks:
		if id.Category == mediaid.CategoryMostRated {
			return current.Favorite
		}
	}
	return current.Folder
}

// FormatMedia prefixes name with the icon of id.
func FormatMedia(id mediaid.MediaID, name string) string {
	return For(id) + name
}

// Shuffle returns the shuffle icon.
func Shuffle() string {
	return current.Shuffle
}

// Repeat returns the icon of a repeat mode, empty when repeat is off.
func Repeat(mode playback.RepeatMode) string {
	switch mode {
	case playback.RepeatAll:
		return current.RepeatAll
	case playback.RepeatOne:
		return current.RepeatOne
	default:
		return ""
	}
}
