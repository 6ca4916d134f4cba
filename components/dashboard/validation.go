package dashboard

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidMetadata is returned when widget metadata fails its schema.
var ErrInvalidMetadata = errors.New("dashboard: widget metadata failed validation")

// MetadataValidator checks the metadata attached to a new widget against the
// schema of its catalog definition.
type MetadataValidator interface {
	Validate(def WidgetDefinition, metadata map[string]any) error
}

// JSONSchemaValidator validates metadata maps against compiled definition
// schemas.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures metadata satisfies the definition schema. Definitions
// without a schema accept anything.
func (v *JSONSchemaValidator) Validate(def WidgetDefinition, metadata map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var payload map[string]any
	if metadata == nil {
		payload = map[string]any{}
	} else {
		// round-trip so typed values (int, []string) look like decoded JSON
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("dashboard: marshal metadata for %s: %w", def.Code, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize metadata for %s: %w", def.Code, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidMetadata, def.Code, err)
	}
	return nil
}

// schemaFor compiles def.Schema on first use. Compiled schemas are keyed by
// code and schema digest, so re-registering a definition with a new schema
// never validates against the old one.
func (v *JSONSchemaValidator) schemaFor(def WidgetDefinition) (*jsonschema.Schema, error) {
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", def.Code, err)
	}
	sum := sha256.Sum256(data)
	key := def.Code + "-" + hex.EncodeToString(sum[:8])

	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}

	compiler := jsonschema.NewCompiler()
	resource := key + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", def.Code, err)
	}
	schema, err = compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[key] = schema
	v.mu.Unlock()
	return schema, nil
}

// NoopMetadataValidator accepts any metadata.
type NoopMetadataValidator struct{}

// Validate implements MetadataValidator.
func (NoopMetadataValidator) Validate(WidgetDefinition, map[string]any) error { return nil }
