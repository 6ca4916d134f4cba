package grid

import "fmt"

// CanPlace reports whether a footprint of size anchored at cell fits the grid
// and does not intersect any widget outside exclude.
func CanPlace(g Grid, widgets []Widget, cell int, size Size, exclude IDSet) bool {
	if !g.Fits(cell, size) {
		return false
	}
	candidate := g.Footprint(cell, size)
	for _, w := range widgets {
		if exclude.Has(w.ID) {
			continue
		}
		if candidate.Overlaps(w.Footprint(g)) {
			return false
		}
	}
	return true
}

// CanPlaceExcludingArea behaves like CanPlace and additionally rejects any
// footprint that intersects the reserved area.
func CanPlaceExcludingArea(g Grid, widgets []Widget, cell int, size Size, area Area, exclude IDSet) bool {
	if !g.Fits(cell, size) {
		return false
	}
	if g.Footprint(cell, size).Overlaps(g.Footprint(area.Cell, area.Size)) {
		return false
	}
	return CanPlace(g, widgets, cell, size, exclude)
}

// CheckLayout verifies the canonical invariants: unique ids, positive sizes,
// every footprint inside the grid and no two footprints overlapping.
func CheckLayout(g Grid, widgets []Widget) error {
	seen := make(IDSet, len(widgets))
	for i, w := range widgets {
		if w.ID == "" {
			return fmt.Errorf("%w: index %d", ErrMissingWidgetID, i)
		}
		if seen.Has(w.ID) {
			return fmt.Errorf("%w: %s", ErrDuplicateWidget, w.ID)
		}
		seen.Add(w.ID)
		if !w.Size.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidSize, w.ID)
		}
		if !g.Fits(w.Cell, w.Size) {
			return fmt.Errorf("%w: %s at cell %d", ErrOutOfBounds, w.ID, w.Cell)
		}
	}
	for i := 0; i < len(widgets); i++ {
		fi := widgets[i].Footprint(g)
		for j := i + 1; j < len(widgets); j++ {
			if fi.Overlaps(widgets[j].Footprint(g)) {
				return fmt.Errorf("%w: %s and %s", ErrOverlap, widgets[i].ID, widgets[j].ID)
			}
		}
	}
	return nil
}

// ValidatePlan re-checks every relocation of plan against the layout with the
// plan applied and the subject lifted off the canvas. Each destination must
// avoid the reserved target footprint and every other widget.
func ValidatePlan(layout Layout, plan RelocationPlan, subjectID string, target Area) error {
	g := layout.Grid
	if !g.Fits(target.Cell, target.Size) {
		return ErrOutOfBounds
	}
	projected := project(layout, plan)
	for _, move := range plan.Moves {
		w, ok := layout.Widget(move.WidgetID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownWidget, move.WidgetID)
		}
		if move.WidgetID == subjectID {
			return fmt.Errorf("%w: plan relocates the dragged widget %s", ErrStalePlan, subjectID)
		}
		if w.Cell != move.From {
			return fmt.Errorf("%w: %s moved from %d to %d", ErrStalePlan, w.ID, move.From, w.Cell)
		}
		exclude := NewIDSet(move.WidgetID, subjectID)
		if !CanPlaceExcludingArea(g, projected, move.To, w.Size, target, exclude) {
			return &PlanError{WidgetID: w.ID, Err: ErrStalePlan}
		}
	}
	if !CanPlace(g, projected, target.Cell, target.Size, NewIDSet(subjectID)) {
		return fmt.Errorf("%w: target %d is still occupied", ErrStalePlan, target.Cell)
	}
	return nil
}

func project(layout Layout, plan RelocationPlan) []Widget {
	projected := make([]Widget, len(layout.Widgets))
	for i, w := range layout.Widgets {
		if to, ok := plan.Destination(w.ID); ok {
			w.Cell = to
		}
		projected[i] = w
	}
	return projected
}
