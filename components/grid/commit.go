package grid

import "fmt"

// Apply commits a validated plan plus the primary placement. The subject is
// moved when it already exists in the layout and appended otherwise. The
// returned layout carries a bumped version; on failure the input layout is
// returned unchanged together with the error.
func Apply(layout Layout, plan RelocationPlan, subject Widget, finalCell int) (Layout, error) {
	if subject.ID == "" {
		return layout, ErrMissingWidgetID
	}
	if !subject.Size.Valid() {
		return layout, ErrInvalidSize
	}
	if _, moved := plan.Destination(subject.ID); moved {
		return layout, fmt.Errorf("%w: plan relocates the dragged widget %s", ErrStalePlan, subject.ID)
	}
	for _, id := range plan.IDs() {
		if _, ok := layout.Widget(id); !ok {
			return layout, fmt.Errorf("%w: %s", ErrUnknownWidget, id)
		}
	}

	widgets := make([]Widget, 0, len(layout.Widgets)+1)
	placed := false
	for _, w := range layout.Widgets {
		w = cloneWidget(w)
		switch {
		case w.ID == subject.ID:
			w.Cell = finalCell
			w.Size = subject.Size
			placed = true
		default:
			if to, ok := plan.Destination(w.ID); ok {
				w.Cell = to
			}
		}
		widgets = append(widgets, w)
	}
	if !placed {
		subject = cloneWidget(subject)
		subject.Cell = finalCell
		widgets = append(widgets, subject)
	}
	if err := CheckLayout(layout.Grid, widgets); err != nil {
		return layout, err
	}
	return newLayout(layout.Grid, layout.Version+1, widgets), nil
}
