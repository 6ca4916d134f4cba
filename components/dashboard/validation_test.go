package dashboard

import (
	"errors"
	"testing"
)

func TestJSONSchemaValidatorRejectsInvalidPayload(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code: "demo.widget.string_required",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
	if err := validator.Validate(def, map[string]any{"name": "Dashboard"}); err != nil {
		t.Fatalf("expected valid metadata, got %v", err)
	}
	err := validator.Validate(def, map[string]any{})
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Fatalf("expected ErrInvalidMetadata for missing name, got %v", err)
	}
}

func TestJSONSchemaValidatorNormalizesTypedValues(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code: "demo.widget.page_size",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page_size": map[string]any{"type": "integer", "maximum": 100},
				"columns":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}
	if err := validator.Validate(def, map[string]any{"page_size": 25, "columns": []string{"a", "b"}}); err != nil {
		t.Fatalf("expected typed metadata to validate, got %v", err)
	}
	if err := validator.Validate(def, map[string]any{"page_size": 500}); err == nil {
		t.Fatalf("expected maximum violation")
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code:   "demo.widget.cache",
		Schema: map[string]any{"type": "object"},
	}
	if err := validator.Validate(def, nil); err != nil {
		t.Fatalf("unexpected error validating metadata: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to contain 1 entry, got %d", len(validator.compiled))
	}
	if err := validator.Validate(def, map[string]any{}); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to remain 1 entry, got %d", len(validator.compiled))
	}
}

func TestDefinitionsWithoutSchemaAcceptAnything(t *testing.T) {
	var validator MetadataValidator = NewJSONSchemaValidator()
	if err := validator.Validate(WidgetDefinition{Code: "demo.widget.free"}, map[string]any{"x": 1}); err != nil {
		t.Fatalf("expected schemaless definition to accept metadata, got %v", err)
	}
	validator = NoopMetadataValidator{}
	if err := validator.Validate(WidgetDefinition{}, nil); err != nil {
		t.Fatalf("noop validator returned %v", err)
	}
}

func TestJSONSchemaValidatorFollowsSchemaChanges(t *testing.T) {
	validator := NewJSONSchemaValidator()
	loose := WidgetDefinition{Code: "demo.widget.evolving", Schema: map[string]any{"type": "object"}}
	if err := validator.Validate(loose, map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	strict := WidgetDefinition{Code: "demo.widget.evolving", Schema: map[string]any{
		"type":     "object",
		"required": []string{"metric"},
	}}
	if err := validator.Validate(strict, map[string]any{}); !errors.Is(err, ErrInvalidMetadata) {
		t.Fatalf("expected the new schema to apply, got %v", err)
	}
	if len(validator.compiled) != 2 {
		t.Fatalf("expected one compiled schema per revision, got %d", len(validator.compiled))
	}
}
