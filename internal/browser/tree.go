// Package browser projects the library into a browsable tree addressed by
// media ids, and republishes library changes as stale tree nodes.
package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/search"
)

// ErrNoSuchNode is returned when an id does not exist in the tree or cannot
// have children. An existing empty category is not an error.
var ErrNoSuchNode = errors.New("no such node")

const (
	DefaultMostRatedLimit     = 5
	DefaultRecentlyAddedLimit = 25
)

// Tree resolves media ids against the current library content. Every call
// works on a fresh snapshot, so concurrent calls are safe.
type Tree struct {
	repo   library.Repository
	engine search.Engine

	mostRatedLimit     int
	recentlyAddedLimit int
	deliveryTimeout    time.Duration

	mu   sync.Mutex
	subs []*Subscription
}

// Option configures a Tree.
type Option func(*Tree)

// WithMostRatedLimit sets the size of the most rated category.
func WithMostRatedLimit(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.mostRatedLimit = n
		}
	}
}

// WithRecentlyAddedLimit sets the size of the recently added category.
func WithRecentlyAddedLimit(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.recentlyAddedLimit = n
		}
	}
}

// WithDeliveryTimeout sets how long Run waits on a subscriber with a full
// buffer before closing it.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(t *Tree) {
		if d > 0 {
			t.deliveryTimeout = d
		}
	}
}

// New creates a tree over repo.
func New(repo library.Repository, opts ...Option) *Tree {
	t := &Tree{
		repo:               repo,
		mostRatedLimit:     DefaultMostRatedLimit,
		recentlyAddedLimit: DefaultRecentlyAddedLimit,
		deliveryTimeout:    DefaultDeliveryTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Children returns the children of id in display order.
// Returns ErrNoSuchNode if id does not exist or is a leaf.
func (t *Tree) Children(ctx context.Context, id mediaid.MediaID) ([]library.Node, error) {
	s, err := library.Load(ctx, t.repo)
	if err != nil {
		return nil, err
	}
	return t.children(s, id)
}

// Item returns the node of id, with the same display fields it has in the
// children of its parent.
func (t *Tree) Item(ctx context.Context, id mediaid.MediaID) (library.Node, error) {
	if id == mediaid.Root {
		return library.RootNode(), nil
	}
	if !id.IsValid() {
		return library.Node{}, ErrNoSuchNode
	}

	s, err := library.Load(ctx, t.repo)
	if err != nil {
		return library.Node{}, err
	}
	siblings, err := t.children(s, id.Parent())
	if err != nil {
		return library.Node{}, err
	}
	node, ok := lo.Find(siblings, func(n library.Node) bool { return n.MediaID == id })
	if !ok {
		return library.Node{}, ErrNoSuchNode
	}
	return node, nil
}

// Search returns the nodes matching q, best match first.
func (t *Tree) Search(ctx context.Context, q search.Query) ([]library.Node, error) {
	if _, ok := q.(search.Empty); ok {
		return []library.Node{}, nil
	}

	start := time.Now()
	s, err := library.Load(ctx, t.repo)
	if err != nil {
		return nil, err
	}
	results := t.engine.Search(s, q)
	log.Debug().
		Int("results", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Library searched")
	return results, nil
}

func (t *Tree) children(s *library.Snapshot, id mediaid.MediaID) ([]library.Node, error) {
	if !id.IsBrowsable() {
		return nil, ErrNoSuchNode
	}

	switch id.Type {
	case mediaid.TypeRoot:
		return lo.Map(mediaid.Types, func(typ mediaid.Type, _ int) library.Node {
			return library.TypeNode(typ)
		}), nil
	case mediaid.TypeTracks:
		return t.trackChildren(s, id)
	case mediaid.TypeAlbums:
		return albumChildren(s, id)
	case mediaid.TypeArtists:
		return artistChildren(s, id)
	case mediaid.TypePlaylists:
		return playlistChildren(s, id)
	default:
		return nil, ErrNoSuchNode
	}
}

func (t *Tree) trackChildren(s *library.Snapshot, id mediaid.MediaID) ([]library.Node, error) {
	var tracks []library.Track
	switch id.Category {
	case "":
		return lo.Map(mediaid.TrackCategories, func(c string, _ int) library.Node {
			return library.CategoryNode(c)
		}), nil
	case mediaid.CategoryAll:
		tracks = s.TracksByTitle()
	case mediaid.CategoryMostRated:
		tracks = s.MostRated(t.mostRatedLimit)
	case mediaid.CategoryRecentlyAdded:
		tracks = s.RecentlyAdded(t.recentlyAddedLimit)
	default:
		return nil, ErrNoSuchNode
	}
	return trackNodes(id, tracks), nil
}

func albumChildren(s *library.Snapshot, id mediaid.MediaID) ([]library.Node, error) {
	if id.Category == "" {
		return lo.Map(s.AlbumsByTitle(), func(a library.Album, _ int) library.Node {
			return library.AlbumNode(a)
		}), nil
	}
	albumID, ok := id.EntityID()
	if !ok {
		return nil, ErrNoSuchNode
	}
	tracks, ok := s.AlbumTracks(albumID)
	if !ok {
		return nil, ErrNoSuchNode
	}
	return trackNodes(id, tracks), nil
}

// artistChildren lists an artist's albums, then the artist's tracks.
func artistChildren(s *library.Snapshot, id mediaid.MediaID) ([]library.Node, error) {
	if id.Category == "" {
		return lo.Map(s.ArtistsByName(), func(a library.Artist, _ int) library.Node {
			return library.ArtistNode(a)
		}), nil
	}
	artistID, ok := id.EntityID()
	if !ok {
		return nil, ErrNoSuchNode
	}
	albums, ok := s.ArtistAlbums(artistID)
	if !ok {
		return nil, ErrNoSuchNode
	}
	tracks, _ := s.ArtistTracks(artistID)

	nodes := make([]library.Node, 0, len(albums)+len(tracks))
	for _, a := range albums {
		nodes = append(nodes, library.AlbumNode(a))
	}
	return append(nodes, trackNodes(id, tracks)...), nil
}

func playlistChildren(s *library.Snapshot, id mediaid.MediaID) ([]library.Node, error) {
	if id.Category == "" {
		return lo.Map(s.Playlists, func(p library.Playlist, _ int) library.Node {
			return library.PlaylistNode(p)
		}), nil
	}
	playlistID, ok := id.EntityID()
	if !ok {
		return nil, ErrNoSuchNode
	}
	tracks, ok := s.PlaylistTracks(playlistID)
	if !ok {
		return nil, ErrNoSuchNode
	}
	return trackNodes(id, tracks), nil
}

func trackNodes(parent mediaid.MediaID, tracks []library.Track) []library.Node {
	nodes := make([]library.Node, len(tracks))
	for i, tr := range tracks {
		nodes[i] = library.TrackNode(parent, tr)
	}
	return nodes
}
