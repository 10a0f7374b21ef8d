package repository

import (
	"context"
	"time"

	"github.com/benchview/benchview/internal/domain/entity"
)

// NavHistoryRepository records successful panel navigations.
type NavHistoryRepository interface {
	// Append records one navigation.
	Append(ctx context.Context, url string, at time.Time) error

	// Recent returns the newest entries, most recent first.
	Recent(ctx context.Context, limit int) ([]entity.NavEntry, error)

	// DeleteOlderThan removes entries older than the given time.
	DeleteOlderThan(ctx context.Context, before time.Time) error
}
