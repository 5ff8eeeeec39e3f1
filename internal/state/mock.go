package state

import (
	"context"
	"sync"
)

// Mock is a test double for Manager. Saves are applied immediately.
type Mock struct {
	mu         sync.Mutex
	lastPlayed *LastPlayed
	saves      int
	readErr    error
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SaveLastPlayed(lp LastPlayed) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPlayed = &lp
	m.saves++
}

func (m *Mock) LastPlayed(_ context.Context) (*LastPlayed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.lastPlayed == nil {
		return nil, nil //nolint:nilnil // nothing saved
	}
	lp := *m.lastPlayed
	return &lp, nil
}

func (m *Mock) Flush() {}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetLastPlayed(lp *LastPlayed) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPlayed = lp
}

func (m *Mock) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
