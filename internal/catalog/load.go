package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// catalogSchema validates skill catalog files before loading.
var catalogSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"skills": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"skill_id":   map[string]any{"type": "string", "minLength": 1},
					"skill_name": map[string]any{"type": "string", "minLength": 1},
					"subject": map[string]any{
						"type": "string",
						"enum": []any{"mathematics", "physics", "chemistry", "biology"},
					},
					"topic": map[string]any{"type": "string", "minLength": 1},
				},
				"required":             []any{"skill_id", "skill_name", "subject", "topic"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"skills"},
	"additionalProperties": false,
}

type catalogFile struct {
	Skills []Skill `json:"skills"`
}

// LoadFile reads, validates, and installs a skill catalog from a JSON file.
func LoadFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog file: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("parse catalog file: %w", err)
	}

	compiled, err := compileCatalogSchema()
	if err != nil {
		return 0, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return 0, fmt.Errorf("catalog file failed validation: %w", err)
	}

	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("decode catalog file: %w", err)
	}
	if err := Replace(f.Skills); err != nil {
		return 0, fmt.Errorf("install catalog: %w", err)
	}
	return len(f.Skills), nil
}

func compileCatalogSchema() (*jsonschema.Schema, error) {
	// The jsonschema library expects a parsed JSON value, not raw bytes.
	defBytes, err := json.Marshal(catalogSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog schema: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse catalog schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://skill-catalog.json", defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile("schema://skill-catalog.json")
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
}
