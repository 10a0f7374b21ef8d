package webkit_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/infrastructure/webkit"
)

type fakeView struct {
	mu      sync.Mutex
	loads   []string
	loadErr error
	visible []bool
	alive   bool
	img     port.Image
	imgErr  error
	snaps   int
}

func newFakeView() *fakeView {
	return &fakeView{alive: true}
}

func (v *fakeView) Load(_ context.Context, url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loadErr != nil {
		return v.loadErr
	}
	v.loads = append(v.loads, url)
	return nil
}

func (v *fakeView) Snapshot(context.Context) (port.Image, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snaps++
	return v.img, v.imgErr
}

func (v *fakeView) SetVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = append(v.visible, visible)
}

func (v *fakeView) Alive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alive
}

type fakeDock struct {
	mu       sync.Mutex
	mounts   int
	unmounts int
	layouts  []port.AppliedLayout
}

func (d *fakeDock) Mount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounts++
}

func (d *fakeDock) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unmounts++
}

func (d *fakeDock) ApplyLayout(fraction float64, topOffset int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layouts = append(d.layouts, port.AppliedLayout{Fraction: fraction, TopOffset: topOffset})
}

func TestSurface_ShowNavigatesMountsAndSizes(t *testing.T) {
	view := newFakeView()
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	visible, err := s.Show(context.Background(), "https://docs.example.org")
	require.NoError(t, err)
	assert.True(t, visible)

	assert.Equal(t, []string{"https://docs.example.org"}, view.loads)
	assert.Equal(t, 1, dock.mounts)
	require.Len(t, dock.layouts, 1)
	assert.InDelta(t, 0.4, dock.layouts[0].Fraction, 1e-9)
}

func TestSurface_ShowReusesLoadedContent(t *testing.T) {
	view := newFakeView()
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	_, err := s.Show(context.Background(), "https://docs.example.org")
	require.NoError(t, err)
	_, err = s.Show(context.Background(), "https://docs.example.org")
	require.NoError(t, err)

	assert.Len(t, view.loads, 1, "same URL must not renavigate")
	assert.Equal(t, 1, dock.mounts, "already attached, no second mount")

	_, err = s.Show(context.Background(), "https://other.example.org")
	require.NoError(t, err)
	assert.Len(t, view.loads, 2, "different URL navigates")
}

func TestSurface_ShowFailureSkipsAttachment(t *testing.T) {
	view := newFakeView()
	view.loadErr = errors.New("dns exploded")
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	visible, err := s.Show(context.Background(), "https://unreachable.example.org")
	require.Error(t, err)
	assert.False(t, visible)
	assert.Zero(t, dock.mounts, "one attempt, no attach on failure")
	assert.Zero(t, len(dock.layouts))
}

func TestSurface_DetachIsIdempotent(t *testing.T) {
	view := newFakeView()
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	_, err := s.Show(context.Background(), "https://docs.example.org")
	require.NoError(t, err)

	state, err := s.Detach(context.Background())
	require.NoError(t, err)
	assert.Equal(t, port.SurfaceDetached, state)

	state, err = s.Detach(context.Background())
	require.NoError(t, err)
	assert.Equal(t, port.SurfaceDetached, state)

	assert.Equal(t, 1, dock.unmounts, "second detach must be a no-op")
}

func TestSurface_DetachToleratesDeadContentProcess(t *testing.T) {
	view := newFakeView()
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	_, err := s.Show(context.Background(), "https://docs.example.org")
	require.NoError(t, err)

	view.mu.Lock()
	view.alive = false
	view.mu.Unlock()

	state, err := s.Detach(context.Background())
	require.NoError(t, err)
	assert.Equal(t, port.SurfaceDetached, state)
}

func TestSurface_AttachRestoresWithoutNavigating(t *testing.T) {
	view := newFakeView()
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	_, err := s.Show(context.Background(), "https://docs.example.org")
	require.NoError(t, err)
	_, err = s.Detach(context.Background())
	require.NoError(t, err)

	state, err := s.Attach(context.Background())
	require.NoError(t, err)
	assert.Equal(t, port.SurfaceAttached, state)

	assert.Len(t, view.loads, 1, "attach must not re-trigger navigation")
	assert.Equal(t, 2, dock.mounts)

	state, err = s.Attach(context.Background())
	require.NoError(t, err)
	assert.Equal(t, port.SurfaceAttached, state)
	assert.Equal(t, 2, dock.mounts, "second attach is a no-op")
}

func TestSurface_ResizeClampsHostSide(t *testing.T) {
	view := newFakeView()
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	_, err := s.Show(context.Background(), "https://docs.example.org")
	require.NoError(t, err)

	applied, err := s.Resize(context.Background(), 0.05, 9999)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, applied.Fraction, 1e-9)
	assert.Equal(t, 2000, applied.TopOffset)

	applied, err = s.Resize(context.Background(), 0.95, -40)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, applied.Fraction, 1e-9)
	assert.Equal(t, 0, applied.TopOffset)

	last := dock.layouts[len(dock.layouts)-1]
	assert.InDelta(t, 0.8, last.Fraction, 1e-9)
	assert.Equal(t, 0, last.TopOffset)
}

func TestSurface_ResizeWhileDetachedAppliesOnAttach(t *testing.T) {
	view := newFakeView()
	dock := &fakeDock{}
	s := webkit.NewOverlaySurface(zerolog.Nop(), view, dock)

	applied, err := s.Resize(context.Background(), 0.3, 48)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, applied.Fraction, 1e-9)
	assert.Empty(t, dock.layouts, "detached surface only records the layout")

	_, err = s.Attach(context.Background())
	require.NoError(t, err)
	require.Len(t, dock.layouts, 1)
	assert.InDelta(t, 0.3, dock.layouts[0].Fraction, 1e-9)
	assert.Equal(t, 48, dock.layouts[0].TopOffset)
}

func TestSurface_SnapshotAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("in-page embed has no snapshot source", func(t *testing.T) {
		view := newFakeView()
		view.img = "texture"
		s := webkit.NewInlineSurface(zerolog.Nop(), view, &fakeDock{})

		img, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, img)
		assert.Zero(t, view.snaps)
	})

	t.Run("overlay surface renders the view", func(t *testing.T) {
		view := newFakeView()
		view.img = "texture"
		s := webkit.NewOverlaySurface(zerolog.Nop(), view, &fakeDock{})
		_, err := s.Show(ctx, "https://docs.example.org")
		require.NoError(t, err)

		img, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, port.Image("texture"), img)
	})

	t.Run("dead view renders nothing", func(t *testing.T) {
		view := newFakeView()
		view.img = "texture"
		s := webkit.NewOverlaySurface(zerolog.Nop(), view, &fakeDock{})
		_, err := s.Show(ctx, "https://docs.example.org")
		require.NoError(t, err)

		view.mu.Lock()
		view.alive = false
		view.mu.Unlock()

		img, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, img)
	})
}
