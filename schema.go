package main

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var configSchemaText string

var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaText)

// validateDocument checks the generic form of a decoded config document
// against the embedded schema.
//
// Parameters:
//   - raw: Document as decoded by the TOML or YAML decoder.
//
// Returns:
//   - error: Non-nil if the document has the wrong shape.
func validateDocument(raw map[string]any) error {
	// Normalize decoder-specific types (int64, time.Time, ...) to JSON values.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	if err := configSchema.Validate(instance); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
