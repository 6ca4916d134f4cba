package goadmin

import (
	"context"
	"errors"

	core "github.com/goliatone/go-dashboard-grid/components/dashboard"
	dashboardpkg "github.com/goliatone/go-dashboard-grid/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the canvas service and feature flags into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	DefaultMenuItem MenuItem
	// CanvasID is the canvas the admin home page edits.
	CanvasID string
	// SeedCanvas places the starter widgets when the canvas is first created.
	SeedCanvas bool
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed dashboard menus and canvases.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("goadmin: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.CanvasID == "" {
		cfg.CanvasID = "admin"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Dashboard"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.dashboard"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "home"
	}
	return &Admin{cfg: cfg}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// CanvasID returns the canvas the admin home page edits.
func (a *Admin) CanvasID() string {
	return a.cfg.CanvasID
}

// Bootstrap creates the admin canvas when missing and seeds menu entries.
// Running it again leaves an existing canvas untouched.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard {
		return nil
	}
	if err := a.ensureCanvas(ctx); err != nil {
		return err
	}
	if a.cfg.MenuBuilder == nil {
		return nil
	}
	return a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem)
}

func (a *Admin) ensureCanvas(ctx context.Context) error {
	_, err := a.cfg.Service.Layout(ctx, a.cfg.CanvasID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, core.ErrCanvasNotFound) {
		return err
	}
	if _, err := a.cfg.Service.CreateCanvas(ctx, core.CreateCanvasRequest{CanvasID: a.cfg.CanvasID}); err != nil {
		return err
	}
	if !a.cfg.SeedCanvas {
		return nil
	}
	return core.SeedCanvas(ctx, a.cfg.Service, a.cfg.CanvasID, nil)
}
