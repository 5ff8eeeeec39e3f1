package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/mediaid"
)

// songParent is the category track results are listed under.
var songParent = mediaid.ForCategory(mediaid.TypeTracks, mediaid.CategoryAll)

// Engine searches a library snapshot. The zero value is ready to use and
// safe for concurrent calls.
type Engine struct{}

// Search returns the nodes matching q, best match first. Albums and artists
// are returned as browsable nodes, tracks as leaves under tracks/all.
func (Engine) Search(s *library.Snapshot, q Query) []library.Node {
	switch q := q.(type) {
	case Artist:
		return artistNodes(exactArtists(s, q.Name))
	case Album:
		return albumNodes(exactAlbums(s, q.Artist, q.Title))
	case Song:
		return songNodes(exactSongs(s, q.Artist, q.Album, q.Title))
	case Unspecified:
		return searchUnspecified(s, q.Text)
	default:
		return []library.Node{}
	}
}

// searchUnspecified returns the highest exact-match tier (artist, then album,
// then song) or, when nothing matches exactly, the ranked substring matches.
func searchUnspecified(s *library.Snapshot, text string) []library.Node {
	if strings.TrimSpace(text) == "" {
		return []library.Node{}
	}
	if artists := exactArtists(s, text); len(artists) > 0 {
		return artistNodes(artists)
	}
	if albums := exactAlbums(s, "", text); len(albums) > 0 {
		return albumNodes(albums)
	}
	if songs := exactSongs(s, "", "", text); len(songs) > 0 {
		return songNodes(songs)
	}
	return substringMatches(s, text)
}

// equalFold reports whether value matches want. A blank want matches anything.
func equalFold(value, want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || library.Fold(strings.TrimSpace(value)) == library.Fold(want)
}

func exactArtists(s *library.Snapshot, name string) []library.Artist {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return lo.Filter(s.ArtistsByName(), func(a library.Artist, _ int) bool {
		return equalFold(a.Name, name)
	})
}

func exactAlbums(s *library.Snapshot, artist, title string) []library.Album {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	return lo.Filter(s.AlbumsByTitle(), func(a library.Album, _ int) bool {
		return equalFold(a.Title, title) && equalFold(a.Artist, artist)
	})
}

func exactSongs(s *library.Snapshot, artist, album, title string) []library.Track {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	return lo.Filter(s.TracksByTitle(), func(t library.Track, _ int) bool {
		return equalFold(t.Title, title) && equalFold(t.Artist, artist) && equalFold(t.Album, album)
	})
}

func artistNodes(artists []library.Artist) []library.Node {
	return lo.Map(artists, func(a library.Artist, _ int) library.Node { return library.ArtistNode(a) })
}

func albumNodes(albums []library.Album) []library.Node {
	return lo.Map(albums, func(a library.Album, _ int) library.Node { return library.AlbumNode(a) })
}

func songNodes(tracks []library.Track) []library.Node {
	return lo.Map(tracks, func(t library.Track, _ int) library.Node { return library.TrackNode(songParent, t) })
}

// kind orders substring matches that rank equally: browsable before leaf.
type kind int

const (
	kindArtist kind = iota
	kindAlbum
	kindTrack
)

// rank is the substring ranking key, compared field by field.
type rank struct {
	position   int // rune offset of the match
	wordLength int // runes of the word containing the match
	length     int // runes of the whole name
	kind       kind
}

func (r rank) compare(o rank) int {
	return cmp.Or(
		cmp.Compare(r.position, o.position),
		cmp.Compare(r.wordLength, o.wordLength),
		cmp.Compare(r.length, o.length),
		cmp.Compare(r.kind, o.kind),
	)
}

type match struct {
	rank rank
	node library.Node
}

// substringMatches returns every artist, album and track whose name contains
// text, ranked by match position, then by the length of the containing word,
// then by the length of the name. Remaining ties keep scan order.
func substringMatches(s *library.Snapshot, text string) []library.Node {
	query := library.Fold(strings.TrimSpace(text))

	var matches []match
	for _, a := range s.Artists {
		if r, ok := rankMatch(a.Name, query, kindArtist); ok {
			matches = append(matches, match{r, library.ArtistNode(a)})
		}
	}
	for _, a := range s.Albums {
		if r, ok := rankMatch(a.Title, query, kindAlbum); ok {
			matches = append(matches, match{r, library.AlbumNode(a)})
		}
	}
	for _, t := range s.Tracks {
		if r, ok := rankMatch(t.Title, query, kindTrack); ok {
			matches = append(matches, match{r, library.TrackNode(songParent, t)})
		}
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		return a.rank.compare(b.rank)
	})
	return lo.Map(matches, func(m match, _ int) library.Node { return m.node })
}

// rankMatch locates the first occurrence of the folded query in name.
func rankMatch(name, query string, k kind) (rank, bool) {
	folded := library.Fold(name)
	i := strings.Index(folded, query)
	if i < 0 {
		return rank{}, false
	}

	start := 0
	if j := strings.LastIndexFunc(folded[:i], unicode.IsSpace); j >= 0 {
		_, size := utf8.DecodeRuneInString(folded[j:])
		start = j + size
	}
	end := len(folded)
	if j := strings.IndexFunc(folded[i+len(query):], unicode.IsSpace); j >= 0 {
		end = i + len(query) + j
	}

	return rank{
		position:   utf8.RuneCountInString(folded[:i]),
		wordLength: utf8.RuneCountInString(folded[start:end]),
		length:     utf8.RuneCountInString(folded),
		kind:       k,
	}, true
}
