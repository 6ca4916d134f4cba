package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
)

type scaffoldCmd struct {
	Code         string   `required:"" help:"Fully-qualified widget code (e.g. acme.widget.stats)."`
	Name         string   `help:"Display name for the widget (defaults to the last code segment in title case)."`
	Description  string   `required:"" help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Widget category (analytics, stats, etc.)."`
	Width        int      `default:"1" help:"Footprint width in grid columns."`
	Height       int      `default:"1" help:"Footprint height in grid rows."`
	ManifestPath string   `required:"" type:"path" help:"Path to the widget manifest YAML file to update."`
	SchemaPath   string   `type:"path" help:"Optional path to a JSON schema file for the widget metadata."`
	Tag          []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	Capabilities []string `help:"Renderer capability labels (html,json,sse,...)."`
	DocsURL      string   `help:"Link to renderer documentation."`
	Channel      string   `help:"Distribution channel label (community, partner, internal)."`
	Overwrite    bool     `help:"Overwrite an existing manifest entry if present."`
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	return cmd.run(os.Stdout)
}

func (cmd *scaffoldCmd) run(out io.Writer) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("gridctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	name := cmd.Name
	if name == "" {
		name = deriveDisplayName(cmd.Code)
	}
	entry := dashboard.ManifestWidget{
		Definition: dashboard.WidgetDefinition{
			Code:        cmd.Code,
			Name:        name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Width:       cmd.Width,
			Height:      cmd.Height,
			Schema:      schema,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}
	if len(cmd.Capabilities) > 0 || cmd.DocsURL != "" || cmd.Channel != "" {
		entry.Provider = dashboard.ManifestProvider{
			Name:         name + " Renderer",
			Summary:      cmd.Description,
			DocsURL:      cmd.DocsURL,
			Capabilities: cmd.Capabilities,
			Channel:      cmd.Channel,
		}
	}

	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Definition.Code != cmd.Code {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("gridctl: manifest already defines widget %s (use --overwrite to replace)", cmd.Code)
		}
		doc.Widgets[idx] = entry
		replaced = true
		break
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.Code < doc.Widgets[j].Definition.Code
	})
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added %s (%dx%d) to %s\n", cmd.Code, cmd.Width, cmd.Height, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) validate() error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("gridctl: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	if cmd.Width <= 0 || cmd.Height <= 0 {
		return fmt.Errorf("gridctl: widget %s needs a positive width and height", cmd.Code)
	}
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("gridctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("gridctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("gridctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("gridctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("gridctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("gridctl: write manifest: %w", err)
	}
	return nil
}

// deriveDisplayName turns "acme.widget.sales_pipeline" into "Sales Pipeline".
func deriveDisplayName(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToCase(slug, strcase.TitleCase, ' ')
}
