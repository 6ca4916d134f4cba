package grid

import (
	"fmt"
	"sort"
)

// Move relocates one widget as part of a plan.
type Move struct {
	WidgetID string `json:"widget_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

// RelocationPlan lists the widgets that must move before a drop can commit.
// Moves are ordered by processing order, which is ascending original cell.
type RelocationPlan struct {
	Moves []Move `json:"moves"`
}

// Empty reports whether the plan moves nothing.
func (p RelocationPlan) Empty() bool {
	return len(p.Moves) == 0
}

// Destination returns the planned cell for a widget.
func (p RelocationPlan) Destination(id string) (int, bool) {
	for _, m := range p.Moves {
		if m.WidgetID == id {
			return m.To, true
		}
	}
	return 0, false
}

// IDs returns the ids of the relocated widgets.
func (p RelocationPlan) IDs() []string {
	ids := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		ids[i] = m.WidgetID
	}
	return ids
}

// PlanRequest describes a drop target. MovingID is set when an existing
// widget is being dragged; it is placed explicitly and never relocated.
// MaxRelocations caps how many widgets the plan may visit; zero means the
// grid's cell count.
type PlanRequest struct {
	Target         int
	Size           Size
	MovingID       string
	MaxRelocations int
}

// Plan computes the relocations required to place a footprint of req.Size at
// req.Target. The layout is treated as an immutable snapshot.
//
// Widgets overlapping the target are relocated, as are widgets anchored after
// the target footprint with no free cell separating them from it. Each
// relocated widget takes the first row-major cell that fits, avoids the
// target, avoids destinations already assigned and avoids widgets outside the
// relocation set. Widgets in the relocation set vacate their cells. When no
// such cell exists the widget shifts onto the first cell clear of the target
// and of assigned destinations, and every widget it lands on joins the
// relocation set.
func Plan(layout Layout, req PlanRequest) (RelocationPlan, error) {
	g := layout.Grid
	if err := g.Validate(); err != nil {
		return RelocationPlan{}, err
	}
	if !req.Size.Valid() {
		return RelocationPlan{}, ErrInvalidSize
	}
	if !g.Fits(req.Target, req.Size) {
		return RelocationPlan{}, fmt.Errorf("%w: %dx%d at cell %d", ErrOutOfBounds, req.Size.Width, req.Size.Height, req.Target)
	}
	var moving *Widget
	if req.MovingID != "" {
		w, ok := layout.Widget(req.MovingID)
		if !ok {
			return RelocationPlan{}, fmt.Errorf("%w: %s", ErrUnknownWidget, req.MovingID)
		}
		moving = &w
	}
	if CanPlace(g, layout.Widgets, req.Target, req.Size, NewIDSet(req.MovingID)) {
		return RelocationPlan{}, nil
	}
	p := newPlanner(layout, req, moving)
	p.flag()
	return p.run()
}

type planner struct {
	grid        Grid
	layout      Layout
	movingID    string
	target      Footprint
	targetLast  int
	earlierMove bool

	limit       int
	relocating  IDSet
	overlapping IDSet
	assigned    map[string]int
	queue       []Widget
}

func newPlanner(layout Layout, req PlanRequest, moving *Widget) *planner {
	g := layout.Grid
	target := g.Footprint(req.Target, req.Size)
	limit := req.MaxRelocations
	if limit <= 0 {
		limit = g.Cells()
	}
	return &planner{
		grid:        g,
		layout:      layout,
		movingID:    req.MovingID,
		target:      target,
		targetLast:  target.Last(g),
		earlierMove: moving != nil && moving.Cell > req.Target,
		limit:       limit,
		relocating:  IDSet{},
		overlapping: IDSet{},
		assigned:    map[string]int{},
	}
}

func (p *planner) flag() {
	occupied := make(map[int]struct{})
	for _, w := range p.layout.Widgets {
		if w.ID == p.movingID {
			continue
		}
		for _, c := range w.Footprint(p.grid).Cells(p.grid) {
			occupied[c] = struct{}{}
		}
	}
	for _, w := range p.layout.Sorted() {
		if w.ID == p.movingID {
			continue
		}
		if w.Footprint(p.grid).Overlaps(p.target) {
			p.overlapping.Add(w.ID)
			p.enqueue(w)
			continue
		}
		if w.Cell > p.targetLast && noGap(occupied, p.targetLast, w.Cell) {
			p.enqueue(w)
		}
	}
}

// noGap reports whether every cell strictly between from and to is occupied.
func noGap(occupied map[int]struct{}, from, to int) bool {
	for c := from + 1; c < to; c++ {
		if _, ok := occupied[c]; !ok {
			return false
		}
	}
	return true
}

func (p *planner) enqueue(w Widget) {
	if p.relocating.Has(w.ID) {
		return
	}
	p.relocating.Add(w.ID)
	idx := sort.Search(len(p.queue), func(i int) bool {
		return p.queue[i].Cell > w.Cell
	})
	p.queue = append(p.queue, Widget{})
	copy(p.queue[idx+1:], p.queue[idx:])
	p.queue[idx] = w
}

func (p *planner) run() (RelocationPlan, error) {
	var plan RelocationPlan
	processed := 0
	for len(p.queue) > 0 {
		w := p.queue[0]
		p.queue = p.queue[1:]
		processed++
		if processed > p.limit {
			return RelocationPlan{}, &PlanError{WidgetID: w.ID, Err: ErrCascadeUnresolvable}
		}
		to, ok := p.destination(w)
		if !ok {
			reason := ErrCascadeUnresolvable
			if p.overlapping.Has(w.ID) {
				reason = ErrDirectOverlap
			}
			return RelocationPlan{}, &PlanError{WidgetID: w.ID, Err: reason}
		}
		p.assigned[w.ID] = to
		if to != w.Cell {
			plan.Moves = append(plan.Moves, Move{WidgetID: w.ID, From: w.Cell, To: to})
		}
		p.cascade(w, to)
	}
	return plan, nil
}

func (p *planner) searchStart(w Widget) int {
	if p.earlierMove {
		return p.targetLast + 1
	}
	return w.Cell + 1
}

func (p *planner) destination(w Widget) (int, bool) {
	if cell, ok := p.scan(w, false); ok {
		return cell, true
	}
	return p.scan(w, true)
}

func (p *planner) scan(w Widget, displace bool) (int, bool) {
	for cell := p.searchStart(w); cell < p.grid.Cells(); cell++ {
		if p.free(w, cell, displace) {
			return cell, true
		}
	}
	return 0, false
}

// free reports whether w may take cell. With displace set, widgets that have
// not been assigned a destination do not block the candidate.
func (p *planner) free(w Widget, cell int, displace bool) bool {
	if !p.grid.Fits(cell, w.Size) {
		return false
	}
	candidate := p.grid.Footprint(cell, w.Size)
	if candidate.Overlaps(p.target) {
		return false
	}
	for _, other := range p.layout.Widgets {
		if other.ID == w.ID || other.ID == p.movingID {
			continue
		}
		if to, ok := p.assigned[other.ID]; ok {
			if candidate.Overlaps(p.grid.Footprint(to, other.Size)) {
				return false
			}
			continue
		}
		if displace || p.relocating.Has(other.ID) {
			continue
		}
		if candidate.Overlaps(other.Footprint(p.grid)) {
			return false
		}
	}
	return true
}

// cascade pulls in any widget outside the relocation set that the new
// destination of w covers.
func (p *planner) cascade(w Widget, to int) {
	dest := p.grid.Footprint(to, w.Size)
	for _, other := range p.layout.Sorted() {
		if other.ID == w.ID || other.ID == p.movingID || p.relocating.Has(other.ID) {
			continue
		}
		if dest.Overlaps(other.Footprint(p.grid)) {
			p.enqueue(other)
		}
	}
}
