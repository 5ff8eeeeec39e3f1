// Package state persists the last played session so playback can resume
// after a restart.
package state

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"

	dbutil "github.com/llehouerou/odeon/internal/db"
)

const (
	appName      = "odeon"
	dbFileName   = "state.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	path      string
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *LastPlayed
}

// Open opens the state database at path, or at the default data location
// when path is empty.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, path: path}, nil
}

// DefaultPath returns the state database location under the XDG data home.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// Close writes any pending state and closes the database.
func (m *Manager) Close() error {
	m.Flush()
	return m.db.Close()
}

// Flush writes the pending state now instead of waiting for the debounce.
func (m *Manager) Flush() {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		m.write(*pending)
	}
}

// LastPlayed returns the saved session, or nil if none was saved yet.
func (m *Manager) LastPlayed(ctx context.Context) (*LastPlayed, error) {
	return getLastPlayed(ctx, m.db)
}

// SaveLastPlayed schedules lp to be written. Calls within the debounce window
// replace each other and only the latest is written.
func (m *Manager) SaveLastPlayed(lp LastPlayed) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &lp

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			m.write(*pending)
		}
	})
}

func (m *Manager) write(lp LastPlayed) {
	if err := saveLastPlayed(context.Background(), m.db, lp); err != nil {
		log.Warn().Err(err).Str("session", lp.SessionID.String()).Msg("Failed to save last played session")
	}
}
