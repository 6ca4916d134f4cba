package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func unit(id string, cell int) Widget {
	return Widget{ID: id, Size: Size{Width: 1, Height: 1}, Cell: cell}
}

func sized(id string, cell, width, height int) Widget {
	return Widget{ID: id, Size: Size{Width: width, Height: height}, Cell: cell}
}

func mustLayout(t *testing.T, widgets ...Widget) Layout {
	t.Helper()
	layout, err := NewLayout(DefaultGrid(), widgets)
	require.NoError(t, err)
	return layout
}

// fill covers every free cell of the default grid with 1x1 widgets.
func fill(t *testing.T, widgets ...Widget) Layout {
	t.Helper()
	g := DefaultGrid()
	occupied := map[int]bool{}
	for _, w := range widgets {
		for _, c := range w.Footprint(g).Cells(g) {
			occupied[c] = true
		}
	}
	for cell := 0; cell < g.Cells(); cell++ {
		if !occupied[cell] {
			widgets = append(widgets, unit(fmt.Sprintf("f%02d", cell), cell))
		}
	}
	return mustLayout(t, widgets...)
}

func cellOf(t *testing.T, layout Layout, id string) int {
	t.Helper()
	w, ok := layout.Widget(id)
	require.True(t, ok, "widget %s missing", id)
	return w.Cell
}

func requireCanonical(t *testing.T, layout Layout) {
	t.Helper()
	require.NoError(t, CheckLayout(layout.Grid, layout.Widgets))
	for _, w := range layout.Widgets {
		require.True(t, CanPlace(layout.Grid, layout.Widgets, w.Cell, w.Size, NewIDSet(w.ID)),
			"widget %s should be placeable on its own cell", w.ID)
	}
}
