package state

import "context"

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	SaveLastPlayed(lp LastPlayed)
	LastPlayed(ctx context.Context) (*LastPlayed, error)
	Flush()
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
