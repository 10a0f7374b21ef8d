// Package control routes decoded controller commands into the workspace
// and batches outbound notifications back to the control plane.
package control

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// defaultFlushWindow is how long the adjustment stream must stay silent
// before the accumulated delta is flushed. Each new delta restarts the
// window.
const defaultFlushWindow = 100 * time.Millisecond

// ResizeNotifier delivers the flushed adjustment to the control plane.
type ResizeNotifier interface {
	NotifyResize(ctx context.Context, delta int) error
}

// Adjuster coalesces a burst of small split deltas into one outbound
// notification. Remote layout nudges arrive as streams of corrections;
// notifying per event would hammer the control plane with noise.
type Adjuster struct {
	notifier ResizeNotifier
	window   time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending float64
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewAdjuster creates an adjuster flushing through notifier after window
// of inactivity. A non-positive window selects the default.
func NewAdjuster(logger zerolog.Logger, notifier ResizeNotifier, window time.Duration) *Adjuster {
	if window <= 0 {
		window = defaultFlushWindow
	}
	return &Adjuster{
		notifier: notifier,
		window:   window,
		log:      logger.With().Str("component", "adjuster").Logger(),
	}
}

// Start arms the adjuster. Deltas added before Start accumulate but do not
// flush.
func (a *Adjuster) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctx, a.cancel = context.WithCancel(ctx)
}

// Add accumulates one applied delta and restarts the inactivity window.
func (a *Adjuster) Add(delta float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending += delta

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.window, a.flush)
}

// Pending returns the not-yet-flushed accumulated delta.
func (a *Adjuster) Pending() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Stop cancels the window timer and flushes whatever is pending.
func (a *Adjuster) Stop() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	cancel := a.cancel
	a.mu.Unlock()

	a.flush()

	if cancel != nil {
		cancel()
	}
}

// flush sends the accumulated delta and resets it to zero. Best-effort:
// delivery failures are logged, never retried.
func (a *Adjuster) flush() {
	a.mu.Lock()
	ctx := a.ctx
	if ctx == nil {
		// Not started yet; keep accumulating until the app lifecycle
		// provides a context.
		a.mu.Unlock()
		return
	}
	pending := a.pending
	a.pending = 0
	a.mu.Unlock()

	value := int(math.Round(pending))
	if value == 0 {
		return
	}

	if err := a.notifier.NotifyResize(ctx, value); err != nil {
		a.log.Warn().Err(err).Int("delta", value).Msg("resize notification failed")
		return
	}
	a.log.Debug().Int("delta", value).Msg("resize notification sent")
}
