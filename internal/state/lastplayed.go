package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	dbutil "github.com/llehouerou/odeon/internal/db"
	"github.com/llehouerou/odeon/internal/mediaid"
)

// LastPlayed is enough to rebuild a playback session: the queue order is
// derived again from the parent's children, the first index and the seed.
type LastPlayed struct {
	SessionID    uuid.UUID
	Parent       mediaid.MediaID
	FirstIndex   int
	Seed         int64
	CurrentIndex int
	Position     time.Duration
	RepeatMode   string
	Shuffle      bool
	UpdatedAt    time.Time
}

func getLastPlayed(ctx context.Context, db *sql.DB) (*LastPlayed, error) {
	row := db.QueryRowContext(ctx, `
		SELECT session_id, parent_media_id, first_index, seed, current_index,
		       position_ms, repeat_mode, shuffle, updated_at
		FROM last_played WHERE id = 1
	`)

	var lp LastPlayed
	var sessionID, parent string
	var positionMS, updatedAt int64
	var repeatMode sql.NullString

	err := row.Scan(&sessionID, &parent, &lp.FirstIndex, &lp.Seed, &lp.CurrentIndex,
		&positionMS, &repeatMode, &lp.Shuffle, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	lp.SessionID, err = uuid.Parse(sessionID)
	if err != nil {
		return nil, err
	}
	lp.Parent, err = mediaid.Parse(parent)
	if err != nil {
		return nil, err
	}
	lp.Position = time.Duration(positionMS) * time.Millisecond
	lp.RepeatMode = dbutil.NullStringValue(repeatMode)
	lp.UpdatedAt = time.Unix(updatedAt, 0)

	return &lp, nil
}

func saveLastPlayed(ctx context.Context, db *sql.DB, lp LastPlayed) error {
	updatedAt := lp.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO last_played (id, session_id, parent_media_id, first_index, seed, current_index,
		                         position_ms, repeat_mode, shuffle, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			parent_media_id = excluded.parent_media_id,
			first_index = excluded.first_index,
			seed = excluded.seed,
			current_index = excluded.current_index,
			position_ms = excluded.position_ms,
			repeat_mode = excluded.repeat_mode,
			shuffle = excluded.shuffle,
			updated_at = excluded.updated_at
	`, lp.SessionID.String(), lp.Parent.String(), lp.FirstIndex, lp.Seed, lp.CurrentIndex,
		lp.Position.Milliseconds(), lp.RepeatMode, lp.Shuffle, updatedAt.Unix())

	return err
}

// ClearLastPlayed removes the saved session and drops any pending save.
func (m *Manager) ClearLastPlayed(ctx context.Context) error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	m.pending = nil
	m.saveMu.Unlock()

	_, err := m.db.ExecContext(ctx, `DELETE FROM last_played`)
	return err
}
