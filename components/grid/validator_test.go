package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPlace(t *testing.T) {
	layout := mustLayout(t, sized("chart", 0, 2, 2), unit("kpi", 14))
	g := layout.Grid

	assert.True(t, CanPlace(g, layout.Widgets, 2, Size{2, 2}, nil))
	assert.False(t, CanPlace(g, layout.Widgets, 1, Size{2, 1}, nil), "overlaps chart")
	assert.False(t, CanPlace(g, layout.Widgets, 5, Size{2, 1}, nil), "out of bounds")
	assert.True(t, CanPlace(g, layout.Widgets, 1, Size{2, 1}, NewIDSet("chart")))
	assert.False(t, CanPlace(g, layout.Widgets, 8, Size{3, 2}, nil), "overlaps kpi")
}

func TestCanPlaceExcludingArea(t *testing.T) {
	layout := mustLayout(t, unit("kpi", 20))
	g := layout.Grid
	reserved := Area{Cell: 0, Size: Size{2, 2}}

	assert.False(t, CanPlaceExcludingArea(g, layout.Widgets, 1, Size{1, 1}, reserved, nil))
	assert.False(t, CanPlaceExcludingArea(g, layout.Widgets, 6, Size{1, 1}, reserved, nil))
	assert.True(t, CanPlaceExcludingArea(g, layout.Widgets, 2, Size{1, 1}, reserved, nil))
	assert.False(t, CanPlaceExcludingArea(g, layout.Widgets, 20, Size{1, 1}, reserved, nil))
	assert.True(t, CanPlaceExcludingArea(g, layout.Widgets, 20, Size{1, 1}, reserved, NewIDSet("kpi")))
}

func TestCheckLayoutRejectsInvalidStates(t *testing.T) {
	g := DefaultGrid()
	assert.ErrorIs(t, CheckLayout(g, []Widget{unit("a", 0), unit("a", 1)}), ErrDuplicateWidget)
	assert.ErrorIs(t, CheckLayout(g, []Widget{sized("a", 0, 2, 2), unit("b", 7)}), ErrOverlap)
	assert.ErrorIs(t, CheckLayout(g, []Widget{sized("a", 5, 2, 1)}), ErrOutOfBounds)
	assert.ErrorIs(t, CheckLayout(g, []Widget{sized("a", 0, 0, 1)}), ErrInvalidSize)
	assert.ErrorIs(t, CheckLayout(g, []Widget{unit("", 0)}), ErrMissingWidgetID)
	assert.NoError(t, CheckLayout(g, []Widget{sized("a", 0, 2, 2), unit("b", 2)}))
}

func TestValidatePlanDetectsDrift(t *testing.T) {
	layout := mustLayout(t, unit("small", 0))
	plan := RelocationPlan{Moves: []Move{{WidgetID: "small", From: 0, To: 2}}}
	target := Area{Cell: 0, Size: Size{2, 2}}
	assert.NoError(t, ValidatePlan(layout, plan, "new", target))

	blocked := mustLayout(t, unit("small", 0), unit("other", 2))
	assert.ErrorIs(t, ValidatePlan(blocked, plan, "new", target), ErrStalePlan)

	moved := mustLayout(t, unit("small", 3))
	assert.ErrorIs(t, ValidatePlan(moved, plan, "new", target), ErrStalePlan)

	assert.ErrorIs(t, ValidatePlan(mustLayout(t), plan, "new", target), ErrUnknownWidget)
}
