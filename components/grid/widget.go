package grid

import (
	"fmt"
	"sort"
)

// Widget is a rectangular item placed on the canvas.
type Widget struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Size     Size           `json:"size" yaml:"size"`
	Cell     int            `json:"cell" yaml:"cell"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Footprint returns the rectangle the widget occupies on g.
func (w Widget) Footprint(g Grid) Footprint {
	return g.Footprint(w.Cell, w.Size)
}

// IDSet is a set of widget ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, skipping empty values.
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Has reports membership; a nil set contains nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Layout is an immutable snapshot of the canonical widget list of a canvas.
// Every operation that changes placement returns a new Layout with a bumped
// Version; the receiver is never modified.
type Layout struct {
	Grid    Grid     `json:"grid"`
	Version uint64   `json:"version"`
	Widgets []Widget `json:"widgets"`

	index map[string]int
}

// NewLayout validates widgets against g and returns a snapshot at version 0.
func NewLayout(g Grid, widgets []Widget) (Layout, error) {
	if err := g.Validate(); err != nil {
		return Layout{}, err
	}
	if err := CheckLayout(g, widgets); err != nil {
		return Layout{}, err
	}
	return newLayout(g, 0, cloneWidgets(widgets)), nil
}

// EmptyLayout returns a layout without widgets.
func EmptyLayout(g Grid) Layout {
	return newLayout(g, 0, nil)
}

func newLayout(g Grid, version uint64, widgets []Widget) Layout {
	l := Layout{Grid: g, Version: version, Widgets: widgets}
	l.index = make(map[string]int, len(widgets))
	for i, w := range widgets {
		l.index[w.ID] = i
	}
	return l
}

// Widget looks up a widget by id.
func (l Layout) Widget(id string) (Widget, bool) {
	if l.index == nil {
		for _, w := range l.Widgets {
			if w.ID == id {
				return w, true
			}
		}
		return Widget{}, false
	}
	i, ok := l.index[id]
	if !ok {
		return Widget{}, false
	}
	return l.Widgets[i], true
}

// Len returns the number of placed widgets.
func (l Layout) Len() int {
	return len(l.Widgets)
}

// Clone returns a deep copy of the snapshot.
func (l Layout) Clone() Layout {
	return newLayout(l.Grid, l.Version, cloneWidgets(l.Widgets))
}

// Occupancy maps every covered cell to the id of the widget covering it.
func (l Layout) Occupancy() map[int]string {
	cells := make(map[int]string)
	for _, w := range l.Widgets {
		for _, c := range w.Footprint(l.Grid).Cells(l.Grid) {
			cells[c] = w.ID
		}
	}
	return cells
}

// Sorted returns the widgets ordered by ascending cell index.
func (l Layout) Sorted() []Widget {
	sorted := cloneWidgets(l.Widgets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Cell < sorted[j].Cell
	})
	return sorted
}

// Remove drops a widget from the layout.
func (l Layout) Remove(id string) (Layout, error) {
	if _, ok := l.Widget(id); !ok {
		return l, fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	widgets := make([]Widget, 0, len(l.Widgets)-1)
	for _, w := range l.Widgets {
		if w.ID != id {
			widgets = append(widgets, cloneWidget(w))
		}
	}
	return newLayout(l.Grid, l.Version+1, widgets), nil
}

func cloneWidgets(widgets []Widget) []Widget {
	if widgets == nil {
		return nil
	}
	out := make([]Widget, len(widgets))
	for i, w := range widgets {
		out[i] = cloneWidget(w)
	}
	return out
}

func cloneWidget(w Widget) Widget {
	if w.Metadata != nil {
		meta := make(map[string]any, len(w.Metadata))
		for k, v := range w.Metadata {
			meta[k] = v
		}
		w.Metadata = meta
	}
	return w
}
