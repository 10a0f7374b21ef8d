package usecase

import (
	"context"
	"fmt"

	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/domain/repository"
	"github.com/benchview/benchview/internal/logging"
)

// SnapshotLayoutUseCase persists layout sessions and restores the most
// recent one at startup.
type SnapshotLayoutUseCase struct {
	repo repository.LayoutSessionRepository
}

// NewSnapshotLayoutUseCase creates a new SnapshotLayoutUseCase.
func NewSnapshotLayoutUseCase(repo repository.LayoutSessionRepository) *SnapshotLayoutUseCase {
	return &SnapshotLayoutUseCase{repo: repo}
}

// Execute snapshots the given layout state and saves it.
func (uc *SnapshotLayoutUseCase) Execute(ctx context.Context, state entity.LayoutState) error {
	session := entity.SnapshotLayout(state)

	logging.FromContext(ctx).Debug().
		Str("dock_side", string(session.DockSide)).
		Float64("split", session.WorkspaceSplit).
		Bool("panel_visible", session.PanelVisible).
		Msg("saving layout snapshot")

	if err := uc.repo.SaveSnapshot(ctx, session); err != nil {
		return fmt.Errorf("save layout snapshot: %w", err)
	}
	return nil
}

// RestoreLatest returns the most recent saved session, or nil when none
// exists yet.
func (uc *SnapshotLayoutUseCase) RestoreLatest(ctx context.Context) (*entity.LayoutSession, error) {
	session, err := uc.repo.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load layout snapshot: %w", err)
	}
	return session, nil
}
