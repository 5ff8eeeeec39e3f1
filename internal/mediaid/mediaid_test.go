//nolint:goconst // test cases intentionally repeat strings for readability
package mediaid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		typ       Type
		category  string
		trackID   int64
		hasTrack  bool
		browsable bool
	}{
		{name: "root", input: "root", typ: TypeRoot, browsable: true},
		{name: "type node", input: "albums", typ: TypeAlbums, browsable: true},
		{name: "track category", input: "tracks/most_rated", typ: TypeTracks, category: "most_rated", browsable: true},
		{name: "album", input: "albums/40", typ: TypeAlbums, category: "40", browsable: true},
		{name: "leaf", input: "tracks/all|161", typ: TypeTracks, category: "all", trackID: 161, hasTrack: true},
		{name: "track zero", input: "tracks/all|0", typ: TypeTracks, category: "all", trackID: 0, hasTrack: true},
		{name: "playlist leaf", input: "playlists/2|7", typ: TypePlaylists, category: "2", trackID: 7, hasTrack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.typ, id.Type)
			assert.Equal(t, tt.category, id.Category)
			trackID, hasTrack := id.Track()
			assert.Equal(t, tt.hasTrack, hasTrack)
			assert.Equal(t, tt.trackID, trackID)
			assert.Equal(t, tt.browsable, id.IsBrowsable())
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"songs",
		"songs/all",
		"tracks/",
		"tracks/all/extra",
		"tracks|12",
		"tracks/all|",
		"tracks/all|abc",
		"albums/40|1|2",
		"tracks/all|+5",
		"tracks/all|-5",
		"tracks/all|007",
		"tracks/all| 5",
		"tracks/all|99999999999999999999",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			id, err := Parse(input)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Parse(%q) error = %v, want ErrMalformed", input, err)
			}
			if id.IsValid() {
				t.Errorf("Parse(%q) = %v, want invalid id", input, id)
			}
		})
	}
}

func TestEquality_IsStructural(t *testing.T) {
	a := MustParse("albums/40|3")
	b := ForTrack(TypeAlbums, "40", 3)

	assert.Equal(t, a, b)
	assert.True(t, a == b)

	set := map[MediaID]struct{}{a: {}}
	_, ok := set[b]
	assert.True(t, ok)
}

func TestWithoutTrack(t *testing.T) {
	leaf := MustParse("artists/5|99")

	parent := leaf.WithoutTrack()

	assert.Equal(t, "artists/5", parent.String())
	assert.True(t, parent.IsBrowsable())
	assert.False(t, parent.IsLeaf())
}

func TestParent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"tracks/all|1", "tracks/all"},
		{"tracks/all", "tracks"},
		{"tracks", "root"},
		{"root", "root"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MustParse(tt.input).Parent().String(), "Parent(%s)", tt.input)
	}
}

func TestEntityID(t *testing.T) {
	id, ok := MustParse("playlists/12").EntityID()
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	_, ok = MustParse("tracks/all").EntityID()
	assert.False(t, ok)
}

func TestUnmarshalText_Invalid(t *testing.T) {
	var id MediaID
	err := id.UnmarshalText([]byte("nope"))
	assert.ErrorIs(t, err, ErrMalformed)
}
