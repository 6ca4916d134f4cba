package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/gorouter"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-grid/components/grid"
	"github.com/goliatone/go-dashboard-grid/pkg/activity/usersink"
)

type serveCmd struct {
	Config  string `type:"path" help:"YAML config file."`
	Address string `help:"Listen address, overrides the config."`
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	cfg, err := loadServeConfig(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Address != "" {
		cfg.Address = cmd.Address
	}
	logger, closer, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: app.controller,
		API:        app.executor,
		Broadcast:  app.hook,
		BasePath:   cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("gridctl: register routes: %w", err)
	}

	logger.Info("canvas routes ready",
		slog.String("address", cfg.Address),
		slog.String("base_path", cfg.BasePath),
		slog.Int("canvases", len(cfg.Canvases)),
	)
	return server.Serve(cfg.Address)
}

type application struct {
	service    *dashboard.Service
	controller *dashboard.Controller
	executor   *httpapi.CommandExecutor
	hook       *dashboard.BroadcastHook
}

// buildApp wires the service stack from config and adds the HTML renderer.
func buildApp(ctx context.Context, cfg serveConfig, logger *slog.Logger) (*application, error) {
	service, hook, telemetry, err := buildService(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("gridctl: templates: %w", err)
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:        service,
		Renderer:       renderer,
		IncludeCatalog: true,
	})
	return &application{
		service:    service,
		controller: controller,
		executor:   httpapi.NewCommandExecutor(service, controller, telemetry),
		hook:       hook,
	}, nil
}

// buildService loads manifests into the catalog and creates the configured
// canvases.
func buildService(ctx context.Context, cfg serveConfig, logger *slog.Logger) (*dashboard.Service, *dashboard.BroadcastHook, *dashboard.SlogTelemetry, error) {
	canvasGrid := grid.Grid{Rows: cfg.Grid.Rows, Cols: cfg.Grid.Cols}
	registry := dashboard.NewRegistry()
	for _, path := range cfg.Manifests {
		doc, err := dashboard.ReadManifest(path)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := doc.CheckGrid(canvasGrid); err != nil {
			return nil, nil, nil, fmt.Errorf("gridctl: manifest %s: %w", path, err)
		}
		if err := registry.LoadManifestDocument(doc); err != nil {
			return nil, nil, nil, err
		}
		logger.Debug("manifest loaded", slog.String("path", path), slog.Int("widgets", len(doc.Widgets)))
	}

	hook := dashboard.NewBroadcastHook()
	telemetry := dashboard.NewSlogTelemetry(logger)
	var cache dashboard.PreviewCache
	if cfg.PreviewCacheTTL > 0 {
		cache = dashboard.NewPreviewCache(cfg.PreviewCacheTTL)
	}
	service := dashboard.NewService(dashboard.Options{
		Catalog:           registry,
		MetadataValidator: dashboard.NewJSONSchemaValidator(),
		RefreshHook:       dashboard.RefreshHooks{hook, usersink.Hook{Sink: usersink.LogSink{Logger: logger}}},
		Telemetry:         telemetry,
		PreviewCache:      cache,
		Grid:              canvasGrid,
	})

	for _, canvas := range cfg.Canvases {
		if _, err := service.CreateCanvas(ctx, dashboard.CreateCanvasRequest{
			CanvasID: canvas.ID,
			Rows:     canvas.Rows,
			Cols:     canvas.Cols,
		}); err != nil {
			return nil, nil, nil, fmt.Errorf("gridctl: create canvas %s: %w", canvas.ID, err)
		}
		if canvas.Seed {
			if err := dashboard.SeedCanvas(ctx, service, canvas.ID, nil); err != nil {
				return nil, nil, nil, fmt.Errorf("gridctl: seed canvas %s: %w", canvas.ID, err)
			}
		}
	}
	return service, hook, telemetry, nil
}
