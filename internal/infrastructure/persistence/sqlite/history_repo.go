package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/domain/repository"
	"github.com/benchview/benchview/internal/logging"
)

const logURLMaxLen = 60

type navHistoryRepo struct {
	db *sql.DB
}

// NewNavHistoryRepository creates a SQLite-backed navigation history store.
func NewNavHistoryRepository(db *sql.DB) repository.NavHistoryRepository {
	return &navHistoryRepo{db: db}
}

// Append records one navigation.
func (r *navHistoryRepo) Append(ctx context.Context, url string, at time.Time) error {
	if url == "" {
		return errors.New("history url cannot be empty")
	}

	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(url, logURLMaxLen)).Msg("recording navigation")

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO nav_history (url, visited_at) VALUES (?, ?)`,
		url, at.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert navigation: %w", err)
	}

	return nil
}

// Recent returns the newest entries, most recent first.
func (r *navHistoryRepo) Recent(ctx context.Context, limit int) ([]entity.NavEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, visited_at
		FROM nav_history
		ORDER BY visited_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query navigation history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []entity.NavEntry
	for rows.Next() {
		var (
			entry     entity.NavEntry
			visitedAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.URL, &visitedAt); err != nil {
			return nil, fmt.Errorf("scan navigation entry: %w", err)
		}
		entry.At = time.Unix(0, visitedAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteOlderThan removes entries older than the given time.
func (r *navHistoryRepo) DeleteOlderThan(ctx context.Context, before time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM nav_history WHERE visited_at < ?`,
		before.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("prune navigation history: %w", err)
	}

	if deleted, err := result.RowsAffected(); err == nil && deleted > 0 {
		logging.FromContext(ctx).Debug().Int64("deleted", deleted).Msg("pruned navigation history")
	}

	return nil
}
