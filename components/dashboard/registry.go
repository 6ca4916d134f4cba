package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// CatalogHook lets packages register widget definitions during init().
type CatalogHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CatalogHook
)

// RegisterCatalogHook registers a hook executed against new registries.
func RegisterCatalogHook(h CatalogHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements Catalog with hook + manifest support.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]WidgetDefinition
	manifestMeta map[string]ManifestProvider
}

// NewRegistry builds a registry seeded with the default catalog and applies
// global hooks.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyRegistry builds a registry without defaults or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{
		definitions:  map[string]WidgetDefinition{},
		manifestMeta: map[string]ManifestProvider{},
	}
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultWidgetDefinitions() {
		_ = r.RegisterDefinition(def)
	}
}

// ApplyHooks executes registered catalog hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores a catalog entry.
func (r *Registry) RegisterDefinition(def WidgetDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("widget definition code is required")
	}
	if !def.Size().Valid() {
		return fmt.Errorf("widget definition %s must have a positive width and height", def.Code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// Definition fetches a widget definition by code.
func (r *Registry) Definition(code string) (WidgetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// ProviderMetadata returns any manifest metadata registered for a widget.
func (r *Registry) ProviderMetadata(code string) (ManifestProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

// Definitions returns all registered definitions sorted by code.
func (r *Registry) Definitions() []WidgetDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]WidgetDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Code < defs[j].Code
	})
	return defs
}

func (r *Registry) recordProviderMetadata(code string, meta ManifestProvider) {
	if meta.Name == "" && meta.Summary == "" && meta.Entry == "" && meta.Package == "" &&
		meta.DocsURL == "" && meta.Channel == "" && len(meta.Capabilities) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[code] = meta
}
