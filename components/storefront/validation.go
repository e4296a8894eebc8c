package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DraftValidator validates entity drafts before they reach a collection.
type DraftValidator interface {
	Validate(entity string, draft any) error
}

var draftSchemas = map[string]map[string]any{
	"product": {
		"type":     "object",
		"required": []string{"name", "category"},
		"properties": map[string]any{
			"name":     map[string]any{"type": "string", "minLength": 1},
			"category": map[string]any{"type": "string", "minLength": 1},
			"price":    map[string]any{"type": "number", "minimum": 0},
			"stock":    map[string]any{"type": "integer", "minimum": 0},
		},
	},
	"customer": {
		"type":     "object",
		"required": []string{"name", "email"},
		"properties": map[string]any{
			"name":  map[string]any{"type": "string", "minLength": 1},
			"email": map[string]any{"type": "string", "minLength": 1},
		},
	},
	"order": {
		"type":     "object",
		"required": []string{"product_id", "customer_id"},
		"properties": map[string]any{
			"product_id":  map[string]any{"type": "integer", "minimum": 1},
			"customer_id": map[string]any{"type": "integer", "minimum": 1},
			"quantity":    map[string]any{"type": "integer", "minimum": 1},
		},
	},
}

// SchemaValidator compiles the per-entity draft schemas and maps failures to
// ValidationError values naming the offending fields.
type SchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator builds a validator backed by jsonschema v5.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{compiled: make(map[string]*jsonschema.Schema)}
}

// Validate checks the draft against the entity schema. Drafts are normalized
// through JSON so struct drafts and map payloads validate identically.
func (v *SchemaValidator) Validate(entity string, draft any) error {
	schema, err := v.schemaFor(entity)
	if err != nil {
		return err
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("storefront: marshal %s draft: %w", entity, err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("storefront: normalize %s draft: %w", entity, err)
	}
	if err := schema.Validate(payload); err != nil {
		fields := failedFields(err)
		if len(fields) == 0 {
			fields = []string{"draft"}
		}
		return &ValidationError{Entity: entity, Fields: fields}
	}
	return nil
}

func (v *SchemaValidator) schemaFor(entity string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[entity]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	raw, ok := draftSchemas[entity]
	if !ok {
		return nil, fmt.Errorf("storefront: no draft schema for entity %q", entity)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("storefront: marshal schema %s: %w", entity, err)
	}
	compiler := jsonschema.NewCompiler()
	name := entity + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("storefront: load schema %s: %w", entity, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("storefront: compile schema %s: %w", entity, err)
	}
	v.mu.Lock()
	v.compiled[entity] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// failedFields walks the validation error tree collecting field names from
// leaf causes: either the instance location or the quoted names in a
// "missing properties" message.
func failedFields(err error) []string {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var fields []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		for _, field := range fieldsFromLeaf(e) {
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}
	}
	walk(verr)
	return fields
}

func fieldsFromLeaf(e *jsonschema.ValidationError) []string {
	if loc := strings.TrimPrefix(e.InstanceLocation, "/"); loc != "" {
		return []string{loc}
	}
	var fields []string
	for _, part := range strings.Split(e.Message, "'") {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, " ") || strings.Contains(part, ":") {
			continue
		}
		fields = append(fields, part)
	}
	return fields
}

type noopDraftValidator struct{}

func (noopDraftValidator) Validate(string, any) error { return nil }
