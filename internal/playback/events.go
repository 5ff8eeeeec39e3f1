package playback

import "time"

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the current window changes, whether on request
// (SeekTo, SetTimeline) or because a track finished and playback advanced.
type TrackChange struct {
	PreviousIndex int
	Index         int
	Current       *Track // nil when Index is IndexUnset
}

// TimelineChange is emitted when the player's timeline is replaced.
type TimelineChange struct {
	WindowCount int
	Index       int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
	Shuffle    bool
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}
