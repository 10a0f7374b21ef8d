// Package repository defines persistence contracts for domain entities.
package repository

import (
	"context"

	"github.com/benchview/benchview/internal/domain/entity"
)

// LayoutSessionRepository persists workspace layout snapshots.
type LayoutSessionRepository interface {
	// SaveSnapshot saves or replaces the latest layout snapshot.
	SaveSnapshot(ctx context.Context, session *entity.LayoutSession) error

	// LatestSnapshot returns the most recent snapshot, or nil when none
	// has been saved yet.
	LatestSnapshot(ctx context.Context) (*entity.LayoutSession, error)
}
