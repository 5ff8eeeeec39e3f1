// internal/playback/state.go
package playback

import "strings"

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// ParseRepeatMode returns the mode named s, ignoring case. Unknown names
// yield RepeatOff and false.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	for _, m := range []RepeatMode{RepeatOff, RepeatAll, RepeatOne} {
		if strings.EqualFold(m.String(), s) {
			return m, true
		}
	}
	return RepeatOff, false
}

// ForNavigation returns the mode used when moving between items on request.
// Repeating one item only applies to automatic advance: skipping still moves.
func (m RepeatMode) ForNavigation() RepeatMode {
	if m == RepeatOne {
		return RepeatOff
	}
	return m
}
