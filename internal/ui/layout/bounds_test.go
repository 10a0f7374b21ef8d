package layout_test

import (
	"testing"

	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/ui/layout"
	"github.com/stretchr/testify/assert"
)

func TestPanelBounds_RightDockReferenceGeometry(t *testing.T) {
	// 1000x800 window, right dock, panel fraction 0.4, no chrome offset:
	// camera 600 wide, panel starts after the 8px handle.
	b := layout.PanelBounds(1000, 800, entity.DockRight, 0.4, 0)

	assert.Equal(t, 608, b.X)
	assert.Equal(t, 0, b.Y)
	assert.Equal(t, 392, b.Width)
	assert.Equal(t, 800, b.Height)
}

func TestPanelBounds_LeftDock(t *testing.T) {
	b := layout.PanelBounds(1000, 800, entity.DockLeft, 0.4, 0)

	assert.Equal(t, 0, b.X)
	assert.Equal(t, 392, b.Width)
	assert.Equal(t, 800, b.Height)

	// Camera shifts right past the panel and handle.
	c := layout.CameraBounds(1000, 800, entity.DockLeft, 0.4, 0)
	assert.Equal(t, 400, c.X)
	assert.Equal(t, 600, c.Width)
}

func TestPanelBounds_TopOffsetShrinksHeight(t *testing.T) {
	b := layout.PanelBounds(1000, 800, entity.DockRight, 0.4, 48)

	assert.Equal(t, 48, b.Y)
	assert.Equal(t, 752, b.Height)
}

func TestPanelBounds_RoundingMatchesHalfUp(t *testing.T) {
	// 999 * 0.6 = 599.4 -> camera 599; panel = 999 - 599 - 8.
	b := layout.PanelBounds(999, 800, entity.DockRight, 0.4, 0)

	assert.Equal(t, 607, b.X)
	assert.Equal(t, 392, b.Width)

	// 1001 * 0.5 = 500.5 rounds away from zero -> camera 501.
	b = layout.PanelBounds(1001, 800, entity.DockRight, 0.5, 0)
	assert.Equal(t, 509, b.X)
	assert.Equal(t, 492, b.Width)
}

func TestPanelBounds_Recomputation(t *testing.T) {
	// Same inputs always give identical bounds; the formula carries no
	// state between calls.
	first := layout.PanelBounds(1280, 720, entity.DockRight, 0.35, 48)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, layout.PanelBounds(1280, 720, entity.DockRight, 0.35, 48))
	}
}

func TestClampFraction(t *testing.T) {
	assert.Equal(t, 0.2, layout.ClampFraction(0.0))
	assert.Equal(t, 0.2, layout.ClampFraction(0.2))
	assert.Equal(t, 0.5, layout.ClampFraction(0.5))
	assert.Equal(t, 0.8, layout.ClampFraction(0.8))
	assert.Equal(t, 0.8, layout.ClampFraction(1.5))
	assert.Equal(t, 0.2, layout.ClampFraction(-3))
}

func TestClampTopOffset(t *testing.T) {
	assert.Equal(t, 0, layout.ClampTopOffset(-100))
	assert.Equal(t, 0, layout.ClampTopOffset(0))
	assert.Equal(t, 48, layout.ClampTopOffset(48))
	assert.Equal(t, 2000, layout.ClampTopOffset(2000))
	assert.Equal(t, 2000, layout.ClampTopOffset(5000))
}
