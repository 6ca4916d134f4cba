package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

var (
	errMissingCanvasStore = errors.New("dashboard: canvas store not configured")
	errInvalidCanvas      = errors.New("dashboard: canvas id is required")
	errInvalidWidget      = errors.New("dashboard: widget id is required")

	// ErrUnknownDefinition is returned when a catalog code is not registered.
	ErrUnknownDefinition = errors.New("dashboard: widget definition not found")
	// ErrMissingSubject is returned when a drag names neither a definition nor a widget.
	ErrMissingSubject = errors.New("dashboard: definition code or widget id is required")
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Store             CanvasStore
	Catalog           Catalog
	MetadataValidator MetadataValidator
	RefreshHook       RefreshHook
	Telemetry         Telemetry
	PreviewCache      PreviewCache
	// Grid is the geometry used by CreateCanvas when the request leaves it unset.
	Grid grid.Grid
	// IDGenerator assigns ids to widgets dropped from the catalog.
	IDGenerator func() string
}

// Service owns the canvases of a dashboard builder: it runs drag sessions,
// previews relocations and commits accepted drops to the store.
type Service struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*dragSession
}

type dragSession struct {
	mu       sync.Mutex
	canvasID string
	viewer   ViewerContext
	session  *grid.Session
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Store == nil {
		opts.Store = NewInMemoryCanvasStore()
	}
	if opts.Catalog == nil {
		opts.Catalog = NewRegistry()
	}
	if opts.MetadataValidator == nil {
		opts.MetadataValidator = NewJSONSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.PreviewCache == nil {
		opts.PreviewCache = noopPreviewCache{}
	}
	if opts.Grid.Validate() != nil {
		opts.Grid = grid.DefaultGrid()
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = uuid.NewString
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:     opts,
		sessions: make(map[string]*dragSession),
	}
}

// Catalog exposes the widget catalog backing the service.
func (s *Service) Catalog() Catalog {
	return s.opts.Catalog
}

// CreateCanvas registers an empty canvas.
func (s *Service) CreateCanvas(ctx context.Context, req CreateCanvasRequest) (grid.Layout, error) {
	store, err := s.canvasStore()
	if err != nil {
		return grid.Layout{}, err
	}
	if req.CanvasID == "" {
		return grid.Layout{}, errInvalidCanvas
	}
	g := s.opts.Grid
	if req.Rows != 0 || req.Cols != 0 {
		g = grid.Grid{Rows: req.Rows, Cols: req.Cols}
	}
	layout, err := store.Create(ctx, req.CanvasID, g)
	if err != nil {
		return grid.Layout{}, err
	}
	s.opts.PreviewCache.Invalidate(canvasCachePrefix(req.CanvasID))
	s.recordTelemetry(ctx, "dashboard.canvas.create", map[string]any{
		"canvas_id": req.CanvasID,
		"rows":      g.Rows,
		"cols":      g.Cols,
	})
	return layout, nil
}

// DeleteCanvas removes a canvas and aborts the drags running on it.
func (s *Service) DeleteCanvas(ctx context.Context, canvasID string) error {
	store, err := s.canvasStore()
	if err != nil {
		return err
	}
	if canvasID == "" {
		return errInvalidCanvas
	}
	if err := store.Delete(ctx, canvasID); err != nil {
		return err
	}
	s.mu.Lock()
	for key, ds := range s.sessions {
		if ds.canvasID == canvasID {
			delete(s.sessions, key)
		}
	}
	s.mu.Unlock()
	s.opts.PreviewCache.Invalidate(canvasCachePrefix(canvasID))
	if err := s.opts.RefreshHook.LayoutChanged(ctx, LayoutEvent{CanvasID: canvasID, Reason: "delete"}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.canvas.delete", map[string]any{"canvas_id": canvasID})
	return nil
}

// Layout returns the canonical layout of a canvas.
func (s *Service) Layout(ctx context.Context, canvasID string) (grid.Layout, error) {
	store, err := s.canvasStore()
	if err != nil {
		return grid.Layout{}, err
	}
	if canvasID == "" {
		return grid.Layout{}, errInvalidCanvas
	}
	return store.Load(ctx, canvasID)
}

// BeginDrag starts a drag for the viewer. A drag the same viewer left open on
// the same canvas is discarded first.
func (s *Service) BeginDrag(ctx context.Context, req BeginDragRequest) (DragHandle, error) {
	if req.CanvasID == "" {
		return DragHandle{}, errInvalidCanvas
	}
	layout, err := s.Layout(ctx, req.CanvasID)
	if err != nil {
		return DragHandle{}, err
	}
	ds := &dragSession{
		canvasID: req.CanvasID,
		viewer:   req.Viewer,
		session:  grid.NewSession(grid.WithEvaluator(s.evaluator(req.CanvasID))),
	}
	switch {
	case req.DefinitionCode != "":
		subject, err := s.newWidget(req.DefinitionCode, req.WidgetID, req.Metadata, true)
		if err != nil {
			return DragHandle{}, err
		}
		if err := ds.session.BeginNew(subject); err != nil {
			return DragHandle{}, err
		}
	case req.WidgetID != "":
		if err := ds.session.BeginMove(layout, req.WidgetID); err != nil {
			return DragHandle{}, err
		}
	default:
		return DragHandle{}, ErrMissingSubject
	}

	s.mu.Lock()
	s.sessions[sessionKey(req.Viewer, req.CanvasID)] = ds
	s.mu.Unlock()

	handle := ds.handle()
	s.recordTelemetry(ctx, "dashboard.drag.begin", map[string]any{
		"canvas_id": req.CanvasID,
		"widget_id": handle.WidgetID,
		"moving":    handle.Moving,
		"viewer":    req.Viewer.UserID,
	})
	return handle, nil
}

// ActiveDrag reports the drag the viewer has open on a canvas.
func (s *Service) ActiveDrag(_ context.Context, canvasID string, viewer ViewerContext) (DragHandle, bool) {
	ds, ok := s.session(viewer, canvasID)
	if !ok {
		return DragHandle{}, false
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.handle(), true
}

// Hover previews the viewer's drag over a cell. The layout is never changed.
func (s *Service) Hover(ctx context.Context, req HoverRequest) (grid.Preview, error) {
	ds, ok := s.session(req.Viewer, req.CanvasID)
	if !ok {
		return grid.Preview{}, fmt.Errorf("%w on canvas %s", grid.ErrNoSession, req.CanvasID)
	}
	layout, err := s.Layout(ctx, req.CanvasID)
	if err != nil {
		return grid.Preview{}, err
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.session.Hover(layout, req.Cell)
}

// Drop commits the viewer's drag at a cell. The drag ends whether or not the
// drop is accepted.
func (s *Service) Drop(ctx context.Context, req DropRequest) (grid.Layout, error) {
	ds, ok := s.takeSession(req.Viewer, req.CanvasID)
	if !ok {
		return grid.Layout{}, fmt.Errorf("%w on canvas %s", grid.ErrNoSession, req.CanvasID)
	}
	before, err := s.Layout(ctx, req.CanvasID)
	if err != nil {
		return grid.Layout{}, err
	}
	ds.mu.Lock()
	subject, _ := ds.session.Subject()
	after, err := ds.session.Drop(before, req.Cell)
	ds.mu.Unlock()
	if err != nil {
		s.recordTelemetry(ctx, "dashboard.drag.rejected", map[string]any{
			"canvas_id": req.CanvasID,
			"widget_id": subject.ID,
			"cell":      req.Cell,
			"error":     err.Error(),
		})
		return before, err
	}
	return s.commit(ctx, req.CanvasID, before, after, subject.ID, "drop")
}

// CancelDrag discards the viewer's drag. Cancelling without a drag is a no-op.
func (s *Service) CancelDrag(ctx context.Context, canvasID string, viewer ViewerContext) error {
	if canvasID == "" {
		return errInvalidCanvas
	}
	ds, ok := s.takeSession(viewer, canvasID)
	if !ok {
		return nil
	}
	ds.mu.Lock()
	ds.session.Cancel()
	ds.mu.Unlock()
	s.recordTelemetry(ctx, "dashboard.drag.cancel", map[string]any{
		"canvas_id": canvasID,
		"viewer":    viewer.UserID,
	})
	return nil
}

// Preview evaluates a placement without any session.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (grid.Preview, error) {
	layout, err := s.Layout(ctx, req.CanvasID)
	if err != nil {
		return grid.Preview{}, err
	}
	subject, moving, err := s.subjectFor(layout, req.DefinitionCode, req.WidgetID, nil, false)
	if err != nil {
		return grid.Preview{}, err
	}
	return s.evaluator(req.CanvasID)(layout, subject, moving, req.Cell), nil
}

// PlaceWidget places a catalog widget, or moves an existing one, in a single
// step with the same relocation rules as an interactive drop.
func (s *Service) PlaceWidget(ctx context.Context, req PlaceWidgetRequest) (grid.Layout, error) {
	before, err := s.Layout(ctx, req.CanvasID)
	if err != nil {
		return grid.Layout{}, err
	}
	subject, moving, err := s.subjectFor(before, req.DefinitionCode, req.WidgetID, req.Metadata, true)
	if err != nil {
		return grid.Layout{}, err
	}
	session := grid.NewSession(grid.WithEvaluator(s.evaluator(req.CanvasID)))
	if moving {
		err = session.BeginMove(before, subject.ID)
	} else {
		err = session.BeginNew(subject)
	}
	if err != nil {
		return grid.Layout{}, err
	}
	after, err := session.Drop(before, req.Cell)
	if err != nil {
		s.recordTelemetry(ctx, "dashboard.widget.place_rejected", map[string]any{
			"canvas_id": req.CanvasID,
			"widget_id": subject.ID,
			"cell":      req.Cell,
			"error":     err.Error(),
		})
		return before, err
	}
	return s.commit(ctx, req.CanvasID, before, after, subject.ID, "place")
}

// RemoveWidget deletes a widget from a canvas. Other widgets stay put.
func (s *Service) RemoveWidget(ctx context.Context, canvasID, widgetID string) (grid.Layout, error) {
	if widgetID == "" {
		return grid.Layout{}, errInvalidWidget
	}
	before, err := s.Layout(ctx, canvasID)
	if err != nil {
		return grid.Layout{}, err
	}
	after, err := before.Remove(widgetID)
	if err != nil {
		return before, err
	}
	return s.commit(ctx, canvasID, before, after, widgetID, "remove")
}

func (s *Service) commit(ctx context.Context, canvasID string, before, after grid.Layout, widgetID, reason string) (grid.Layout, error) {
	if err := s.opts.Store.Save(ctx, canvasID, after, before.Version); err != nil {
		return before, err
	}
	s.opts.PreviewCache.Invalidate(canvasCachePrefix(canvasID))
	moves := diffMoves(before, after, widgetID)
	event := LayoutEvent{
		CanvasID: canvasID,
		WidgetID: widgetID,
		Reason:   reason,
		Version:  after.Version,
		Moves:    moves,
	}
	if err := s.opts.RefreshHook.LayoutChanged(ctx, event); err != nil {
		return after, err
	}
	s.recordTelemetry(ctx, "dashboard.layout."+reason, map[string]any{
		"canvas_id": canvasID,
		"widget_id": widgetID,
		"version":   after.Version,
		"moves":     len(moves),
	})
	return after, nil
}

// NotifyLayoutChanged exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyLayoutChanged(ctx context.Context, event LayoutEvent) error {
	if err := s.opts.RefreshHook.LayoutChanged(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.layout.event", map[string]any{
		"canvas_id": event.CanvasID,
		"widget_id": event.WidgetID,
		"reason":    event.Reason,
	})
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	if meta, ok := ActivityFromContext(ctx); ok {
		meta.stamp(payload)
	}
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) canvasStore() (CanvasStore, error) {
	if s.opts.Store == nil {
		return nil, errMissingCanvasStore
	}
	return s.opts.Store, nil
}

// subjectFor resolves the drag subject: a fresh widget when code is set,
// otherwise the existing widget id.
func (s *Service) subjectFor(layout grid.Layout, code, widgetID string, metadata map[string]any, validate bool) (grid.Widget, bool, error) {
	if code != "" {
		w, err := s.newWidget(code, widgetID, metadata, validate)
		return w, false, err
	}
	if widgetID == "" {
		return grid.Widget{}, false, ErrMissingSubject
	}
	w, ok := layout.Widget(widgetID)
	if !ok {
		return grid.Widget{}, false, fmt.Errorf("%w: %s", grid.ErrUnknownWidget, widgetID)
	}
	return w, true, nil
}

// newWidget builds a catalog widget. Stateless previews skip metadata
// validation since metadata never affects placement.
func (s *Service) newWidget(code, id string, metadata map[string]any, validate bool) (grid.Widget, error) {
	def, ok := s.opts.Catalog.Definition(code)
	if !ok {
		return grid.Widget{}, fmt.Errorf("%w: %s", ErrUnknownDefinition, code)
	}
	if validate {
		if err := s.opts.MetadataValidator.Validate(def, metadata); err != nil {
			return grid.Widget{}, err
		}
	}
	if id == "" {
		id = s.opts.IDGenerator()
	}
	return grid.Widget{
		ID:       id,
		Kind:     def.Code,
		Size:     def.Size(),
		Metadata: metadata,
	}, nil
}

func (s *Service) evaluator(canvasID string) grid.Evaluator {
	return func(layout grid.Layout, subject grid.Widget, moving bool, cell int) grid.Preview {
		key := previewKey(canvasID, layout.Version, subject, moving, cell)
		return s.opts.PreviewCache.GetOrCompute(key, func() grid.Preview {
			return grid.Evaluate(layout, subject, moving, cell)
		})
	}
}

func (s *Service) session(viewer ViewerContext, canvasID string) (*dragSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.sessions[sessionKey(viewer, canvasID)]
	return ds, ok
}

func (s *Service) takeSession(viewer ViewerContext, canvasID string) (*dragSession, bool) {
	key := sessionKey(viewer, canvasID)
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.sessions[key]
	if ok {
		delete(s.sessions, key)
	}
	return ds, ok
}

func sessionKey(viewer ViewerContext, canvasID string) string {
	return viewer.UserID + "::" + canvasID
}

func (ds *dragSession) handle() DragHandle {
	subject, _ := ds.session.Subject()
	return DragHandle{
		CanvasID: ds.canvasID,
		WidgetID: subject.ID,
		Kind:     subject.Kind,
		Size:     subject.Size,
		Moving:   ds.session.Moving(),
		State:    ds.session.State(),
	}
}

// diffMoves lists the widgets other than subjectID whose cell changed.
func diffMoves(before, after grid.Layout, subjectID string) []grid.Move {
	var moves []grid.Move
	for _, w := range before.Sorted() {
		if w.ID == subjectID {
			continue
		}
		next, ok := after.Widget(w.ID)
		if !ok || next.Cell == w.Cell {
			continue
		}
		moves = append(moves, grid.Move{WidgetID: w.ID, From: w.Cell, To: next.Cell})
	}
	return moves
}

type noopRefreshHook struct{}

func (noopRefreshHook) LayoutChanged(context.Context, LayoutEvent) error {
	return nil
}
