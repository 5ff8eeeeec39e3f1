// Package mediaid defines the hierarchical identifier addressing every node
// of the browsable media tree.
//
// Encoding:
//
//	root                     the tree root
//	{type}                   a type node (tracks, albums, artists, playlists)
//	{type}/{category}        a browsable category
//	{type}/{category}|{id}   a playable track leaf
package mediaid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned by Parse for strings that are not a valid MediaID.
var ErrMalformed = errors.New("malformed media id")

const (
	categorySeparator = "/"
	trackSeparator    = "|"
	rootEncoding      = "root"
)

// Type is the first component of a MediaID.
type Type int

const (
	TypeInvalid Type = iota
	TypeRoot
	TypeTracks
	TypeAlbums
	TypeArtists
	TypePlaylists
)

// Types lists the browsable types exposed under the root, in display order.
var Types = []Type{TypeTracks, TypeAlbums, TypeArtists, TypePlaylists}

// String returns the encoded form of the type.
func (t Type) String() string {
	switch t {
	case TypeRoot:
		return rootEncoding
	case TypeTracks:
		return "tracks"
	case TypeAlbums:
		return "albums"
	case TypeArtists:
		return "artists"
	case TypePlaylists:
		return "playlists"
	default:
		return "invalid"
	}
}

func parseType(s string) (Type, bool) {
	for _, t := range Types {
		if t.String() == s {
			return t, true
		}
	}
	return TypeInvalid, false
}

// Fixed categories of the tracks type.
const (
	CategoryAll           = "all"
	CategoryMostRated     = "most_rated"
	CategoryRecentlyAdded = "recently_added"
)

// TrackCategories lists the categories of the tracks type, in display order.
var TrackCategories = []string{CategoryAll, CategoryMostRated, CategoryRecentlyAdded}

// MediaID identifies a node of the browsable tree.
// The zero value is invalid. MediaID is comparable and can be used as a map key.
type MediaID struct {
	Type     Type
	Category string
	track    int64
	hasTrack bool
}

// Root is the id of the tree root.
var Root = MediaID{Type: TypeRoot}

// ForType returns the id of a type node.
func ForType(t Type) MediaID {
	return MediaID{Type: t}
}

// ForCategory returns the id of a browsable category of the given type.
func ForCategory(t Type, category string) MediaID {
	return MediaID{Type: t, Category: category}
}

// ForEntity returns the id of an album, artist or playlist category.
func ForEntity(t Type, id int64) MediaID {
	return ForCategory(t, strconv.FormatInt(id, 10))
}

// ForTrack returns the id of a track leaf under the given category.
func ForTrack(t Type, category string, trackID int64) MediaID {
	return MediaID{Type: t, Category: category, track: trackID, hasTrack: true}
}

// Track returns the track component and whether it is present.
func (m MediaID) Track() (int64, bool) {
	return m.track, m.hasTrack
}

// EntityID parses the category as a numeric album, artist or playlist id.
func (m MediaID) EntityID() (int64, bool) {
	if m.Category == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(m.Category, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsValid reports whether the id has a known type.
func (m MediaID) IsValid() bool {
	return m.Type != TypeInvalid
}

// IsLeaf reports whether the id denotes a playable track.
func (m MediaID) IsLeaf() bool {
	return m.hasTrack
}

// IsBrowsable reports whether the id may have children.
func (m MediaID) IsBrowsable() bool {
	return m.IsValid() && !m.hasTrack
}

// WithoutTrack drops the track component, yielding the browsable parent of a leaf.
func (m MediaID) WithoutTrack() MediaID {
	return MediaID{Type: m.Type, Category: m.Category}
}

// Parent returns the id one level up: leaf to category, category to type,
// type to root. The root is its own parent.
func (m MediaID) Parent() MediaID {
	switch {
	case m.hasTrack:
		return m.WithoutTrack()
	case m.Category != "":
		return ForType(m.Type)
	case m.Type == TypeRoot:
		return Root
	case m.IsValid():
		return Root
	default:
		return MediaID{}
	}
}

// String returns the canonical encoding.
func (m MediaID) String() string {
	if m.Type == TypeRoot {
		return rootEncoding
	}
	if !m.IsValid() {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.Type.String())
	if m.Category != "" {
		b.WriteString(categorySeparator)
		b.WriteString(m.Category)
	}
	if m.hasTrack {
		b.WriteString(trackSeparator)
		b.WriteString(strconv.FormatInt(m.track, 10))
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (m MediaID) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MediaID) UnmarshalText(text []byte) error {
	id, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = id
	return nil
}

// Parse decodes a canonical MediaID string.
// Malformed input yields the zero MediaID and an error wrapping ErrMalformed.
func Parse(s string) (MediaID, error) {
	if s == rootEncoding {
		return Root, nil
	}

	head, trackPart, hasTrack := strings.Cut(s, trackSeparator)
	typePart, category, hasCategory := strings.Cut(head, categorySeparator)

	t, ok := parseType(typePart)
	if !ok {
		return MediaID{}, fmt.Errorf("%w: unknown type in %q", ErrMalformed, s)
	}
	if hasCategory && (category == "" || strings.Contains(category, categorySeparator)) {
		return MediaID{}, fmt.Errorf("%w: bad category in %q", ErrMalformed, s)
	}
	if !hasTrack {
		return MediaID{Type: t, Category: category}, nil
	}

	if category == "" {
		return MediaID{}, fmt.Errorf("%w: track without category in %q", ErrMalformed, s)
	}
	if !canonicalNumber(trackPart) {
		return MediaID{}, fmt.Errorf("%w: bad track in %q", ErrMalformed, s)
	}
	trackID, err := strconv.ParseInt(trackPart, 10, 64)
	if err != nil {
		return MediaID{}, fmt.Errorf("%w: bad track in %q", ErrMalformed, s)
	}
	return ForTrack(t, category, trackID), nil
}

// canonicalNumber reports whether s is a decimal number as String writes it:
// digits only, without sign or leading zeros.
func canonicalNumber(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) MediaID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
