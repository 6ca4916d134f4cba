package dashboard

import (
	"context"
	"errors"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// CanvasStore persists the canonical layout of each dashboard canvas.
// Implementations ensure thread safety and reject saves whose expected
// version does not match the stored one.
type CanvasStore interface {
	Create(ctx context.Context, canvasID string, g grid.Grid) (grid.Layout, error)
	Load(ctx context.Context, canvasID string) (grid.Layout, error)
	Save(ctx context.Context, canvasID string, layout grid.Layout, expectedVersion uint64) error
	Delete(ctx context.Context, canvasID string) error
}

// Catalog stores the widget definitions users can drag onto a canvas.
type Catalog interface {
	RegisterDefinition(def WidgetDefinition) error
	Definition(code string) (WidgetDefinition, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (REST/WebSocket) about layout changes.
type RefreshHook interface {
	LayoutChanged(ctx context.Context, event LayoutEvent) error
}

// RefreshHooks delivers each event to every hook in order. All hooks run even
// when one fails; the failures are joined.
type RefreshHooks []RefreshHook

// LayoutChanged satisfies RefreshHook.
func (hooks RefreshHooks) LayoutChanged(ctx context.Context, event LayoutEvent) error {
	var errs []error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.LayoutChanged(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WidgetDefinition describes a catalog entry: its footprint and the schema its
// metadata must satisfy.
type WidgetDefinition struct {
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Width       int            `json:"width" yaml:"width"`
	Height      int            `json:"height" yaml:"height"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Size returns the definition footprint.
func (def WidgetDefinition) Size() grid.Size {
	return grid.Size{Width: def.Width, Height: def.Height}
}

// ViewerContext captures the user driving an interaction.
type ViewerContext struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// LayoutEvent describes changes that transports might care about.
type LayoutEvent struct {
	CanvasID string      `json:"canvas_id"`
	WidgetID string      `json:"widget_id,omitempty"`
	Reason   string      `json:"reason"`
	Version  uint64      `json:"version"`
	Moves    []grid.Move `json:"moves,omitempty"`
}

// BeginDragRequest starts a drag. Either DefinitionCode (a new widget from the
// catalog) or WidgetID (an existing widget) must be set.
type BeginDragRequest struct {
	CanvasID       string         `json:"canvas_id"`
	Viewer         ViewerContext  `json:"viewer"`
	DefinitionCode string         `json:"definition_code,omitempty"`
	WidgetID       string         `json:"widget_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// DragHandle identifies the widget being dragged.
type DragHandle struct {
	CanvasID string     `json:"canvas_id"`
	WidgetID string     `json:"widget_id"`
	Kind     string     `json:"kind"`
	Size     grid.Size  `json:"size"`
	Moving   bool       `json:"moving"`
	State    grid.State `json:"state"`
}

// HoverRequest previews the active drag over a cell.
type HoverRequest struct {
	CanvasID string        `json:"canvas_id"`
	Viewer   ViewerContext `json:"viewer"`
	Cell     int           `json:"cell"`
}

// DropRequest commits the active drag at a cell.
type DropRequest struct {
	CanvasID string        `json:"canvas_id"`
	Viewer   ViewerContext `json:"viewer"`
	Cell     int           `json:"cell"`
}

// PlaceWidgetRequest places or moves a widget in one step, without an
// interactive session.
type PlaceWidgetRequest struct {
	CanvasID       string         `json:"canvas_id"`
	DefinitionCode string         `json:"definition_code,omitempty"`
	WidgetID       string         `json:"widget_id,omitempty"`
	Cell           int            `json:"cell"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
}

// PreviewRequest asks what placing a definition or widget at a cell would do,
// without touching any session.
type PreviewRequest struct {
	CanvasID       string `json:"canvas_id"`
	DefinitionCode string `json:"definition_code,omitempty"`
	WidgetID       string `json:"widget_id,omitempty"`
	Cell           int    `json:"cell"`
}

// CreateCanvasRequest creates an empty canvas. Zero Rows and Cols select the
// service default geometry.
type CreateCanvasRequest struct {
	CanvasID string `json:"canvas_id"`
	Rows     int    `json:"rows,omitempty"`
	Cols     int    `json:"cols,omitempty"`
}
