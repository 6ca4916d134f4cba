package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/queries"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the canvas controller, API, and refresh hook.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for canvas endpoints. Every
// path except WebSocket is nested under Canvas.
type RouteConfig struct {
	Canvas    string
	Layout    string
	Occupancy string
	Widgets   string
	WidgetID  string
	Preview   string
	Drag      string
	Hover     string
	Drop      string
	Refresh   string
	WebSocket string
}

// Register mounts canvas routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/dashboard"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.Canvas, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderPage(ctx.Context(), ctx.Param("canvas"), viewer, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Canvas+routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.LayoutPayload(ctx.Context(), ctx.Param("canvas"), viewerResolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	group.Get(routes.Canvas+routes.Occupancy, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderOccupancy(ctx.Context(), ctx.Param("canvas"), nil, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

type cellPayload struct {
	Cell int `json:"cell"`
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	layout := func(ctx router.Context, status int) error {
		payload, err := api.Layout(ctx.Context(), queries.LayoutInput{
			CanvasID: ctx.Param("canvas"),
			Viewer:   resolver(ctx),
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(status, payload)
	}

	r.Post(routes.Canvas+routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.PlaceWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.CanvasID = ctx.Param("canvas")
		if payload.UserID == "" {
			payload.UserID = resolver(ctx).UserID
		}
		if err := api.Place(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return layout(ctx, http.StatusCreated)
	}))

	r.Delete(routes.Canvas+routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondStatus(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		input := commands.RemoveWidgetInput{CanvasID: ctx.Param("canvas"), WidgetID: id}
		input.UserID = resolver(ctx).UserID
		if err := api.Remove(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusNoContent, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Canvas+routes.Preview, router.WrapHandler(func(ctx router.Context) error {
		var payload dashboard.PreviewRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.CanvasID = ctx.Param("canvas")
		preview, err := api.Preview(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, preview)
	}))

	r.Post(routes.Canvas+routes.Drag, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.BeginDragInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		viewer := resolver(ctx)
		payload.CanvasID = ctx.Param("canvas")
		payload.Viewer = viewer
		payload.UserID = viewer.UserID
		if err := api.BeginDrag(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		handle, err := api.ActiveDrag(ctx.Context(), queries.DragInput{CanvasID: payload.CanvasID, Viewer: viewer})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, handle)
	}))

	r.Post(routes.Canvas+routes.Hover, router.WrapHandler(func(ctx router.Context) error {
		var payload cellPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		preview, err := api.Hover(ctx.Context(), dashboard.HoverRequest{
			CanvasID: ctx.Param("canvas"),
			Viewer:   resolver(ctx),
			Cell:     payload.Cell,
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, preview)
	}))

	r.Post(routes.Canvas+routes.Drop, router.WrapHandler(func(ctx router.Context) error {
		var payload cellPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		viewer := resolver(ctx)
		input := commands.DropWidgetInput{CanvasID: ctx.Param("canvas"), Viewer: viewer, Cell: payload.Cell}
		input.UserID = viewer.UserID
		if err := api.Drop(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return layout(ctx, http.StatusOK)
	}))

	r.Delete(routes.Canvas+routes.Drag, router.WrapHandler(func(ctx router.Context) error {
		input := commands.CancelDragInput{CanvasID: ctx.Param("canvas"), Viewer: resolver(ctx)}
		if err := api.CancelDrag(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusNoContent, map[string]string{"status": "cancelled"})
	}))

	r.Post(routes.Canvas+routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshLayoutInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Event.CanvasID = ctx.Param("canvas")
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

// registerWebSocket streams every layout event; clients filter on canvas_id.
func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		err := hook.Stream(ws.Context(), "", func(event dashboard.LayoutEvent) error {
			return ws.WriteJSON(event)
		})
		if err != nil {
			return err
		}
		return ws.Close()
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if viewer.UserID == "" {
		viewer.UserID = ctx.Header(httpapi.ViewerHeader)
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		return parseAcceptLanguage(header)
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, err error) error {
	return respondStatus(ctx, httpapi.StatusFor(err), err)
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Canvas == "" {
		routes.Canvas = "/canvases/:canvas"
	}
	if routes.Layout == "" {
		routes.Layout = "/layout"
	}
	if routes.Occupancy == "" {
		routes.Occupancy = "/occupancy"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/widgets/:id"
	}
	if routes.Preview == "" {
		routes.Preview = "/preview"
	}
	if routes.Drag == "" {
		routes.Drag = "/drag"
	}
	if routes.Hover == "" {
		routes.Hover = "/drag/hover"
	}
	if routes.Drop == "" {
		routes.Drop = "/drag/drop"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/refresh"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
