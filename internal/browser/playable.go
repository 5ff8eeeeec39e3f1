package browser

import (
	"context"

	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/mediaid"
)

// Playable is a playable child together with the track it plays.
type Playable struct {
	Node  library.Node
	Track library.Track
}

// PlayableChildren returns the playable children of id in display order,
// resolved against a single snapshot. Browsable children are skipped, so an
// artist yields only its own tracks.
func (t *Tree) PlayableChildren(ctx context.Context, id mediaid.MediaID) ([]Playable, error) {
	s, err := library.Load(ctx, t.repo)
	if err != nil {
		return nil, err
	}
	nodes, err := t.children(s, id)
	if err != nil {
		return nil, err
	}

	playable := make([]Playable, 0, len(nodes))
	for _, n := range nodes {
		if !n.Playable {
			continue
		}
		trackID, _ := n.MediaID.Track()
		tr, ok := s.TrackByID(trackID)
		if !ok {
			continue
		}
		playable = append(playable, Playable{Node: n, Track: tr})
	}
	return playable, nil
}
