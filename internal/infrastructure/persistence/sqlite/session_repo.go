package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/domain/repository"
	"github.com/benchview/benchview/internal/logging"
)

type layoutSessionRepo struct {
	db *sql.DB
}

// NewLayoutSessionRepository creates a SQLite-backed layout session store.
// Only the latest snapshot is kept; every save replaces the previous one.
func NewLayoutSessionRepository(db *sql.DB) repository.LayoutSessionRepository {
	return &layoutSessionRepo{db: db}
}

// SaveSnapshot saves or replaces the layout snapshot.
func (r *layoutSessionRepo) SaveSnapshot(ctx context.Context, session *entity.LayoutSession) error {
	log := logging.FromContext(ctx)
	if session == nil {
		return errors.New("layout session cannot be nil")
	}

	stateJSON, err := json.Marshal(session)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal layout session")
		return err
	}

	log.Debug().
		Str("dock_side", string(session.DockSide)).
		Float64("workspace_split", session.WorkspaceSplit).
		Bool("panel_visible", session.PanelVisible).
		Msg("saving layout snapshot")

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO layout_sessions (id, state_json, version, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			state_json = excluded.state_json,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		string(stateJSON), int64(session.Version), session.SavedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("upsert layout snapshot: %w", err)
	}

	return nil
}

// LatestSnapshot returns the stored snapshot, or nil when none exists.
func (r *layoutSessionRepo) LatestSnapshot(ctx context.Context) (*entity.LayoutSession, error) {
	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT state_json FROM layout_sessions WHERE id = 1`,
	).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.LayoutSession
	if err := json.Unmarshal([]byte(stateJSON), &session); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to unmarshal layout session")
		return nil, err
	}

	return &session, nil
}
