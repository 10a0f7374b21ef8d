// Package session persists the workspace layout across runs.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/benchview/benchview/internal/application/usecase"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/logging"
)

// Saver handles debounced layout snapshots. Every layout change marks the
// saver dirty; the actual write happens once the change burst settles.
type Saver struct {
	snapshotUC *usecase.SnapshotLayoutUseCase
	layout     func() entity.LayoutState
	interval   time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSaver creates a saver reading the live layout through layout.
func NewSaver(snapshotUC *usecase.SnapshotLayoutUseCase, layout func() entity.LayoutState, intervalMs int) *Saver {
	if intervalMs <= 0 {
		intervalMs = 2000 // Default 2 seconds
	}
	return &Saver{
		snapshotUC: snapshotUC,
		layout:     layout,
		interval:   time.Duration(intervalMs) * time.Millisecond,
	}
}

// Start begins accepting dirty marks.
func (s *Saver) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("layout saver started")
}

// Stop stops the saver and saves final state.
func (s *Saver) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	// Final save on shutdown
	return s.SaveNow(ctx)
}

// MarkDirty signals that layout changed. Saves are debounced so a divider
// drag does not produce a database write per pointer event.
func (s *Saver) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil {
			return
		}

		if err := s.save(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to save layout snapshot")
		}
	})
}

// SaveNow forces an immediate save (for shutdown).
func (s *Saver) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return nil
	}

	return s.save(ctx)
}

func (s *Saver) save(ctx context.Context) error {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	return s.snapshotUC.Execute(ctx, s.layout())
}
