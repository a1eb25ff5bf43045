package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// recordSchema describes the minimum shape accepted from a model, after
// sanitizing. Semantic completeness is left to human review.
var recordSchema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"properties": map[string]any{
		"institution":   map[string]any{"type": "string"},
		"degreeProgram": map[string]any{"type": "string"},
		"degreeClass":   map[string]any{"type": "string"},
		"subject":       map[string]any{"type": "string"},
		"courseName":    map[string]any{"type": "string"},
		"instructor":    map[string]any{"type": "string"},
		"credits":       map[string]any{"type": "integer", "minimum": 0},
		"adoptedTexts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"title", "authors"},
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"authors":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"publisher":   map[string]any{"type": "string"},
					"year":        map[string]any{"type": "integer"},
					"isbn":        map[string]any{"type": "string"},
					"edition":     map[string]any{"type": "string"},
					"category":    map[string]any{"enum": []string{"principal", "recommended", "reference"}},
					"isPrincipal": map[string]any{"type": "boolean"},
				},
			},
		},
	},
	"required": []string{"institution", "subject", "adoptedTexts"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(recordSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("record.json")
	})
	return compiledSchema, compileErr
}

// ValidateRecordJSON checks data against the record schema.
func ValidateRecordJSON(data []byte) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
