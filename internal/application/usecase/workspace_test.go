package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/application/usecase"
	"github.com/benchview/benchview/internal/domain/entity"
)

type surfaceCall struct {
	op       string
	url      string
	fraction float64
	offset   int
}

type fakeSurface struct {
	mu    sync.Mutex
	calls []surfaceCall

	showVisible bool
	showErr     error
	detachState port.SurfaceState
	detachErr   error
	attachErr   error
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{showVisible: true, detachState: port.SurfaceDetached}
}

func (s *fakeSurface) record(c surfaceCall) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

func (s *fakeSurface) ops(op string) []surfaceCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []surfaceCall
	for _, c := range s.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeSurface) Show(_ context.Context, url string) (bool, error) {
	s.record(surfaceCall{op: "show", url: url})
	return s.showVisible, s.showErr
}

func (s *fakeSurface) Load(_ context.Context, url string) (bool, error) {
	s.record(surfaceCall{op: "load", url: url})
	return s.showErr == nil, s.showErr
}

func (s *fakeSurface) Resize(_ context.Context, fraction float64, topOffset int) (port.AppliedLayout, error) {
	s.record(surfaceCall{op: "resize", fraction: fraction, offset: topOffset})
	return port.AppliedLayout{Fraction: fraction, TopOffset: topOffset}, nil
}

func (s *fakeSurface) Detach(_ context.Context) (port.SurfaceState, error) {
	s.record(surfaceCall{op: "detach"})
	return s.detachState, s.detachErr
}

func (s *fakeSurface) Attach(_ context.Context) (port.SurfaceState, error) {
	s.record(surfaceCall{op: "attach"})
	if s.attachErr != nil {
		return port.SurfaceDetached, s.attachErr
	}
	return port.SurfaceAttached, nil
}

func (s *fakeSurface) Snapshot(_ context.Context) (port.Image, error) {
	s.record(surfaceCall{op: "snapshot"})
	return nil, nil
}

type fakeChannel struct {
	mu        sync.Mutex
	endpoints []string
}

func (c *fakeChannel) SetEndpoint(endpoint string) {
	c.mu.Lock()
	c.endpoints = append(c.endpoints, endpoint)
	c.mu.Unlock()
}

func (c *fakeChannel) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.endpoints...)
}

func ptr[T any](v T) *T { return &v }

func newWorkspace(surface port.PanelSurface, initial entity.LayoutState) *usecase.WorkspaceUseCase {
	return usecase.NewWorkspaceUseCase(surface, &fakeChannel{}, usecase.WorkspaceConfig{Initial: initial})
}

func TestWorkspaceUseCase_SetURLAndShow(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())
	ctx := context.Background()

	err := ws.SetURLAndShow(ctx, "https://wiki.internal/repair/steps")
	require.NoError(t, err)

	shows := surface.ops("show")
	require.Len(t, shows, 1)
	assert.Equal(t, "https://wiki.internal/repair/steps", shows[0].url)

	state := ws.Layout()
	assert.True(t, state.PanelVisible)
	assert.Equal(t, "https://wiki.internal/repair/steps", state.PanelURL)
}

func TestWorkspaceUseCase_SetURLAndShow_BlankFallsBackToCurrent(t *testing.T) {
	surface := newFakeSurface()
	initial := entity.NewLayoutState()
	initial.PanelURL = "https://wiki.internal/current"
	ws := newWorkspace(surface, initial)

	err := ws.SetURLAndShow(context.Background(), "   ")
	require.NoError(t, err)

	shows := surface.ops("show")
	require.Len(t, shows, 1)
	assert.Equal(t, "https://wiki.internal/current", shows[0].url)
	assert.Equal(t, "https://wiki.internal/current", ws.Layout().PanelURL)
}

func TestWorkspaceUseCase_SetURLAndShow_NormalizesRemoteInput(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())
	ctx := context.Background()

	// Controllers send plain watch URLs; the panel needs the embed form.
	require.NoError(t, ws.SetURLAndShow(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	// Scheme-less host input gets https defaulted.
	require.NoError(t, ws.SetURLAndShow(ctx, "wiki.internal/repair"))

	shows := surface.ops("show")
	require.Len(t, shows, 2)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", shows[0].url)
	assert.Equal(t, "https://wiki.internal/repair", shows[1].url)
	assert.Equal(t, "https://wiki.internal/repair", ws.Layout().PanelURL)
}

func TestWorkspaceUseCase_ToggleVisibility_NormalizesOverrideURL(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())

	err := ws.ToggleVisibility(context.Background(), "youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	shows := surface.ops("show")
	require.Len(t, shows, 1)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", shows[0].url)
}

func TestWorkspaceUseCase_SetURLAndShow_FailsOpenOnNavigationError(t *testing.T) {
	surface := newFakeSurface()
	surface.showVisible = false
	surface.showErr = errors.New("load interrupted")
	ws := newWorkspace(surface, entity.NewLayoutState())

	err := ws.SetURLAndShow(context.Background(), "https://unreachable.internal")
	require.NoError(t, err)

	// Prior content is attached and the panel still becomes visible.
	assert.Len(t, surface.ops("attach"), 1)
	assert.True(t, ws.Layout().PanelVisible)
}

func TestWorkspaceUseCase_ToggleVisibility_MirrorsSurfaceRoundTrip(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())
	ctx := context.Background()

	// Show path mirrors the reported result, no fail-open here.
	surface.showVisible = false
	surface.showErr = errors.New("load interrupted")
	err := ws.ToggleVisibility(ctx, "")
	require.Error(t, err)
	assert.False(t, ws.Layout().PanelVisible)

	surface.showVisible = true
	surface.showErr = nil
	require.NoError(t, ws.ToggleVisibility(ctx, ""))
	assert.True(t, ws.Layout().PanelVisible)

	// Hide path mirrors the detach result.
	require.NoError(t, ws.ToggleVisibility(ctx, ""))
	assert.False(t, ws.Layout().PanelVisible)
	assert.Len(t, surface.ops("detach"), 1)
}

func TestWorkspaceUseCase_ToggleVisibility_HideReportsDeadSurface(t *testing.T) {
	surface := newFakeSurface()
	initial := entity.NewLayoutState()
	initial.PanelVisible = true
	ws := newWorkspace(surface, initial)

	surface.detachState = port.SurfaceDetached
	surface.detachErr = errors.New("content process gone")

	err := ws.ToggleVisibility(context.Background(), "")
	require.Error(t, err)
	assert.False(t, ws.Layout().PanelVisible, "state mirrors the detached surface even when the call errored")
}

func TestWorkspaceUseCase_ApplyLayout_StepsTowardSplitTarget(t *testing.T) {
	surface := newFakeSurface()
	initial := entity.NewLayoutState()
	initial.WorkspaceSplit = 70
	ws := newWorkspace(surface, initial)
	ctx := context.Background()

	delta, err := ws.ApplyLayout(ctx, nil, ptr(90.0))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, delta, 1e-9)
	assert.InDelta(t, 75.0, ws.Layout().WorkspaceSplit, 1e-9)

	delta, err = ws.ApplyLayout(ctx, nil, ptr(90.0))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, delta, 1e-9)
	assert.InDelta(t, 80.0, ws.Layout().WorkspaceSplit, 1e-9)

	// At the range edge the target is unreachable; nothing more applies.
	delta, err = ws.ApplyLayout(ctx, nil, ptr(90.0))
	require.NoError(t, err)
	assert.Zero(t, delta)
	assert.InDelta(t, 80.0, ws.Layout().WorkspaceSplit, 1e-9)
}

func TestWorkspaceUseCase_ApplyLayout_SplitStaysInRange(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())
	ctx := context.Background()

	for _, target := range []float64{-100, 500, 0, 100, 20, 80, 50.5} {
		prev := ws.Layout().WorkspaceSplit
		delta, err := ws.ApplyLayout(ctx, nil, ptr(target))
		require.NoError(t, err)

		split := ws.Layout().WorkspaceSplit
		assert.GreaterOrEqual(t, split, entity.MinWorkspaceSplit)
		assert.LessOrEqual(t, split, entity.MaxWorkspaceSplit)
		assert.LessOrEqual(t, delta, entity.MaxSplitStep)
		assert.GreaterOrEqual(t, delta, -entity.MaxSplitStep)
		assert.InDelta(t, prev+delta, split, 1e-9)
	}
}

func TestWorkspaceUseCase_ApplyLayout_DockSideReplacesDirectly(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())

	_, err := ws.ApplyLayout(context.Background(), ptr(entity.DockLeft), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.DockLeft, ws.Layout().DockSide)
}

func TestWorkspaceUseCase_ApplyLayout_ResizesSurfaceOnlyWhileVisible(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())
	ctx := context.Background()

	_, err := ws.ApplyLayout(ctx, nil, ptr(50.0))
	require.NoError(t, err)
	assert.Empty(t, surface.ops("resize"), "hidden panel must not trigger bounds sync")

	// Showing pushes the split that changed while hidden.
	require.NoError(t, ws.SetURLAndShow(ctx, "https://wiki.internal"))
	resizes := surface.ops("resize")
	require.Len(t, resizes, 1)
	assert.InDelta(t, 0.45, resizes[0].fraction, 1e-9)

	_, err = ws.ApplyLayout(ctx, nil, ptr(50.0))
	require.NoError(t, err)

	resizes = surface.ops("resize")
	require.Len(t, resizes, 2)
	split := ws.Layout().WorkspaceSplit
	assert.InDelta(t, (100-split)/100, resizes[1].fraction, 1e-9)
}

func TestWorkspaceUseCase_SetSplitFromDrag_BypassesStepLimitAndClamps(t *testing.T) {
	surface := newFakeSurface()
	initial := entity.NewLayoutState()
	initial.WorkspaceSplit = 60
	ws := newWorkspace(surface, initial)
	ctx := context.Background()

	ws.SetSplitFromDrag(ctx, 22)
	assert.InDelta(t, 22.0, ws.Layout().WorkspaceSplit, 1e-9, "drag jumps directly, no step limit")

	ws.SetSplitFromDrag(ctx, 5)
	assert.InDelta(t, entity.MinWorkspaceSplit, ws.Layout().WorkspaceSplit, 1e-9)

	ws.SetSplitFromDrag(ctx, 95)
	assert.InDelta(t, entity.MaxWorkspaceSplit, ws.Layout().WorkspaceSplit, 1e-9)
}

func TestWorkspaceUseCase_PanelURLNeverBlank(t *testing.T) {
	surface := newFakeSurface()
	initial := entity.NewLayoutState()
	initial.PanelURL = ""
	ws := newWorkspace(surface, initial)
	ctx := context.Background()

	check := func(after string) {
		assert.NotEmpty(t, strings.TrimSpace(ws.Layout().PanelURL), "after %s", after)
	}
	check("construction")

	require.NoError(t, ws.SetURLAndShow(ctx, ""))
	check("setURLAndShow with empty url")

	require.NoError(t, ws.ToggleVisibility(ctx, " \t"))
	check("toggle hide")

	require.NoError(t, ws.ToggleVisibility(ctx, ""))
	check("toggle show with blank override")
}

func TestWorkspaceUseCase_MockModeSwitchesEffectiveEndpoint(t *testing.T) {
	surface := newFakeSurface()
	channel := &fakeChannel{}
	ws := usecase.NewWorkspaceUseCase(surface, channel, usecase.WorkspaceConfig{
		Initial:        entity.NewLayoutState(),
		BridgeEndpoint: "http://controller.internal/stream",
		MockEndpoint:   "http://127.0.0.1:8799/stream",
	})
	ctx := context.Background()

	ws.Connect()
	require.NoError(t, ws.SetMockMode(ctx, true))

	// While the simulator holds the channel, a new controller endpoint is
	// stored but not applied.
	require.NoError(t, ws.SetBridgeEndpoint(ctx, "http://10.0.0.9:8800/stream"))
	require.NoError(t, ws.SetMockMode(ctx, false))

	assert.Equal(t, []string{
		"http://controller.internal/stream",
		"http://127.0.0.1:8799/stream",
		"http://10.0.0.9:8800/stream",
	}, channel.seen())
}

func TestWorkspaceUseCase_OnChangeDeliversSnapshots(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.NewLayoutState())

	var got []entity.LayoutState
	ws.OnChange(func(s entity.LayoutState) { got = append(got, s) })

	require.NoError(t, ws.SetURLAndShow(context.Background(), "https://wiki.internal"))

	require.NotEmpty(t, got)
	assert.True(t, got[len(got)-1].PanelVisible)
	assert.Equal(t, "https://wiki.internal", got[len(got)-1].PanelURL)
}

func TestWorkspaceUseCase_InitialStateRevalidated(t *testing.T) {
	surface := newFakeSurface()
	ws := newWorkspace(surface, entity.LayoutState{
		DockSide:         entity.DockSide("bottom"),
		WorkspaceSplit:   999,
		PanelURL:         "  ",
		ControlBarOffset: -40,
	})

	state := ws.Layout()
	assert.Equal(t, entity.DockRight, state.DockSide)
	assert.InDelta(t, entity.MaxWorkspaceSplit, state.WorkspaceSplit, 1e-9)
	assert.Equal(t, entity.DefaultPanelURL, state.PanelURL)
	assert.Zero(t, state.ControlBarOffset)
}
