package playback

import (
	"time"

	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/mediaid"
)

// Track represents a track in the timeline.
// This is a copy of the data, not a reference to library.Track.
type Track struct {
	ID          int64
	MediaID     mediaid.MediaID
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

// NewTrack copies a library track reached through the leaf id.
func NewTrack(id mediaid.MediaID, t library.Track) Track {
	return Track{
		ID:          t.ID,
		MediaID:     id,
		Path:        t.Path,
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		TrackNumber: t.TrackNumber,
		Duration:    t.Duration,
	}
}
