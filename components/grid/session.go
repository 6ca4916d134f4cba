package grid

import (
	"errors"
	"fmt"
)

// State is the phase of a drag interaction.
type State int

const (
	StateIdle State = iota
	StatePreviewingNew
	StatePreviewingMove
	StateInvalidPreview
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreviewingNew:
		return "previewing_new"
	case StatePreviewingMove:
		return "previewing_move"
	case StateInvalidPreview:
		return "invalid_preview"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name for JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Ghost is the previewed position of a relocated widget.
type Ghost struct {
	WidgetID  string    `json:"widget_id"`
	Cell      int       `json:"cell"`
	Footprint Footprint `json:"footprint"`
}

// Preview is the result of hovering a drag subject over a cell.
type Preview struct {
	Valid     bool           `json:"valid"`
	Cell      int            `json:"cell"`
	Size      Size           `json:"size"`
	Footprint Footprint      `json:"footprint"`
	Plan      RelocationPlan `json:"plan"`
	Ghosts    []Ghost        `json:"ghosts,omitempty"`
	Version   uint64         `json:"version"`
	Reason    string         `json:"reason,omitempty"`
	Err       error          `json:"-"`
}

// Evaluate computes the preview for placing subject at cell. When moving is
// true the subject is an existing widget of the layout.
func Evaluate(layout Layout, subject Widget, moving bool, cell int) Preview {
	g := layout.Grid
	pv := Preview{Cell: cell, Size: subject.Size, Version: layout.Version}
	reject := func(err error) Preview {
		pv.Valid = false
		pv.Err = err
		pv.Reason = err.Error()
		return pv
	}
	if !subject.Size.Valid() {
		return reject(ErrInvalidSize)
	}
	if !g.Fits(cell, subject.Size) {
		return reject(fmt.Errorf("%w: cell %d", ErrOutOfBounds, cell))
	}
	pv.Footprint = g.Footprint(cell, subject.Size)

	exclude := NewIDSet()
	req := PlanRequest{Target: cell, Size: subject.Size}
	if moving {
		if _, ok := layout.Widget(subject.ID); !ok {
			return reject(fmt.Errorf("%w: %s", ErrUnknownWidget, subject.ID))
		}
		exclude.Add(subject.ID)
		req.MovingID = subject.ID
	} else if _, ok := layout.Widget(subject.ID); ok {
		return reject(fmt.Errorf("%w: %s", ErrDuplicateWidget, subject.ID))
	}

	if CanPlace(g, layout.Widgets, cell, subject.Size, exclude) {
		pv.Valid = true
		return pv
	}
	plan, err := Plan(layout, req)
	if err != nil {
		return reject(err)
	}
	if err := ValidatePlan(layout, plan, subject.ID, Area{Cell: cell, Size: subject.Size}); err != nil {
		return reject(err)
	}
	pv.Valid = true
	pv.Plan = plan
	for _, m := range plan.Moves {
		w, _ := layout.Widget(m.WidgetID)
		pv.Ghosts = append(pv.Ghosts, Ghost{
			WidgetID:  m.WidgetID,
			Cell:      m.To,
			Footprint: g.Footprint(m.To, w.Size),
		})
	}
	return pv
}

// Evaluator computes hover previews; Evaluate is the default.
type Evaluator func(layout Layout, subject Widget, moving bool, cell int) Preview

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithEvaluator replaces the preview computation, e.g. with a memoizing one.
func WithEvaluator(eval Evaluator) SessionOption {
	return func(s *Session) {
		if eval != nil {
			s.evaluate = eval
		}
	}
}

// Session drives one interactive drag: preview on hover, then commit or
// cancel. It never mutates the layouts handed to it.
type Session struct {
	state    State
	subject  Widget
	moving   bool
	preview  *Preview
	evaluate Evaluator
}

// NewSession returns an idle session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{state: StateIdle, evaluate: Evaluate}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// Subject returns the widget being dragged.
func (s *Session) Subject() (Widget, bool) {
	if s.state == StateIdle {
		return Widget{}, false
	}
	return s.subject, true
}

// Moving reports whether the subject is an existing widget.
func (s *Session) Moving() bool {
	return s.state != StateIdle && s.moving
}

// LastPreview returns the most recent hover result.
func (s *Session) LastPreview() (Preview, bool) {
	if s.preview == nil {
		return Preview{}, false
	}
	return *s.preview, true
}

// BeginNew starts dragging a widget coming from the catalog.
func (s *Session) BeginNew(w Widget) error {
	if s.state != StateIdle {
		return ErrSessionBusy
	}
	if w.ID == "" {
		return ErrMissingWidgetID
	}
	if !w.Size.Valid() {
		return ErrInvalidSize
	}
	s.subject = cloneWidget(w)
	s.moving = false
	s.preview = nil
	s.state = StatePreviewingNew
	return nil
}

// BeginMove starts dragging a widget already placed on the layout.
func (s *Session) BeginMove(layout Layout, id string) error {
	if s.state != StateIdle {
		return ErrSessionBusy
	}
	w, ok := layout.Widget(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	s.subject = cloneWidget(w)
	s.moving = true
	s.preview = nil
	s.state = StatePreviewingMove
	return nil
}

// Hover previews the subject at cell against the layout.
func (s *Session) Hover(layout Layout, cell int) (Preview, error) {
	if s.state == StateIdle {
		return Preview{}, ErrNoSession
	}
	pv := s.evaluate(layout, s.subject, s.moving, cell)
	s.preview = &pv
	switch {
	case !pv.Valid:
		s.state = StateInvalidPreview
	case s.moving:
		s.state = StatePreviewingMove
	default:
		s.state = StatePreviewingNew
	}
	return pv, nil
}

// Drop commits the subject at cell. The preview is recomputed when the drop
// cell differs from the last hover, and re-validated against the layout when
// the layout changed since the preview was computed. The session returns to
// idle whether or not the drop is accepted.
func (s *Session) Drop(layout Layout, cell int) (Layout, error) {
	if s.state == StateIdle {
		return layout, ErrNoSession
	}
	defer s.Cancel()

	if s.preview == nil || s.preview.Cell != cell {
		if _, err := s.Hover(layout, cell); err != nil {
			return layout, err
		}
	}
	pv := *s.preview
	if s.state == StateInvalidPreview || !pv.Valid {
		if pv.Err != nil {
			return layout, fmt.Errorf("%w: %w", ErrInvalidPreview, pv.Err)
		}
		return layout, ErrInvalidPreview
	}

	subject := s.subject
	if s.moving {
		current, ok := layout.Widget(subject.ID)
		if !ok {
			return layout, fmt.Errorf("%w: %s was removed", ErrStalePlan, subject.ID)
		}
		subject = current
	} else if _, exists := layout.Widget(subject.ID); exists {
		return layout, fmt.Errorf("%w: %s already placed", ErrStalePlan, subject.ID)
	}

	if pv.Version != layout.Version {
		target := Area{Cell: cell, Size: subject.Size}
		if err := ValidatePlan(layout, pv.Plan, subject.ID, target); err != nil {
			if errors.Is(err, ErrStalePlan) {
				return layout, err
			}
			return layout, fmt.Errorf("%w: %w", ErrStalePlan, err)
		}
	}
	return Apply(layout, pv.Plan, subject, cell)
}

// Cancel discards any preview and returns to idle.
func (s *Session) Cancel() {
	s.state = StateIdle
	s.subject = Widget{}
	s.moving = false
	s.preview = nil
}
