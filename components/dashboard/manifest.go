package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// WidgetManifestDocument models a YAML/JSON manifest describing catalog widgets.
type WidgetManifestDocument struct {
	Version  string           `json:"version" yaml:"version"`
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string           `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage string           `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Widgets  []ManifestWidget `json:"widgets" yaml:"widgets"`
	Source   string           `json:"-" yaml:"-"`
}

// ManifestWidget describes a single widget entry within a manifest.
type ManifestWidget struct {
	Definition  WidgetDefinition `json:"definition" yaml:"definition"`
	Provider    ManifestProvider `json:"provider,omitempty" yaml:"provider,omitempty"`
	Maintainers []string         `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestProvider captures discovery metadata about the collaborator that
// renders a widget (chart engine, report runner, QR scanner).
type ManifestProvider struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary      string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Entry        string   `json:"entry,omitempty" yaml:"entry,omitempty"`
	Package      string   `json:"package,omitempty" yaml:"package,omitempty"`
	DocsURL      string   `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Channel      string   `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// ErrInvalidManifest wraps every manifest validation failure.
var ErrInvalidManifest = errors.New("dashboard: invalid widget manifest")

// LoadManifestFile reads a manifest from disk, registers its definitions and
// returns the document.
func (r *Registry) LoadManifestFile(path string) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions and provider metadata from a
// decoded manifest. Nothing is registered when any definition is rejected.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidManifest)
	}
	for _, widget := range doc.Widgets {
		if _, exists := r.Definition(widget.Definition.Code); exists {
			return fmt.Errorf("%w: %s from %s is already registered", ErrInvalidManifest, widget.Definition.Code, doc.Source)
		}
	}
	for _, widget := range doc.Widgets {
		if err := r.RegisterDefinition(widget.Definition); err != nil {
			return fmt.Errorf("dashboard: register widget %s from %s: %w", widget.Definition.Code, doc.Source, err)
		}
		r.recordProviderMetadata(widget.Definition.Code, widget.Provider)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads and validates a manifest from any reader. Unknown
// fields are rejected.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc WidgetManifestDocument
	switch err := decoder.Decode(&doc); {
	case errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: manifest is empty", ErrInvalidManifest)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if doc.Version == "" {
		doc.Version = ManifestVersion
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate reports every problem in the manifest at once.
func (doc *WidgetManifestDocument) Validate() error {
	var problems []error
	if doc.Version != manifestVersionV1 {
		problems = append(problems, fmt.Errorf("unsupported manifest version %q", doc.Version))
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		def := widget.Definition
		if def.Code == "" {
			problems = append(problems, fmt.Errorf("widget at index %d is missing definition.code", idx))
			continue
		}
		if def.Name == "" {
			problems = append(problems, fmt.Errorf("widget %s is missing definition.name", def.Code))
		}
		if !def.Size().Valid() {
			problems = append(problems, fmt.Errorf("widget %s needs positive definition.width and definition.height", def.Code))
		}
		if _, exists := seen[def.Code]; exists {
			problems = append(problems, fmt.Errorf("manifest duplicates widget code %s", def.Code))
		}
		seen[def.Code] = struct{}{}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(problems...))
}

// CheckGrid rejects definitions whose footprint is larger than g, since no
// cell of such a canvas could ever hold them.
func (doc *WidgetManifestDocument) CheckGrid(g grid.Grid) error {
	var problems []error
	for _, widget := range doc.Widgets {
		size := widget.Definition.Size()
		if size.Width > g.Cols || size.Height > g.Rows {
			problems = append(problems, fmt.Errorf("widget %s (%dx%d) does not fit a %dx%d canvas",
				widget.Definition.Code, size.Width, size.Height, g.Cols, g.Rows))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(problems...))
}
