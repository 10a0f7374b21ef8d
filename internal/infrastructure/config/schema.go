package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// SchemaJSON renders the configuration JSON schema.
func SchemaJSON() ([]byte, error) {
	r := new(jsonschema.Reflector)
	schema := r.Reflect(&Config{})

	schema.ID = "https://github.com/benchview/benchview/config.schema.json"
	schema.Title = "BenchView Configuration"
	schema.Description = "Configuration schema for BenchView, a desktop shell pairing a live camera feed with an embeddable web panel"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// GenerateSchemaFile writes the JSON schema next to the config file. This is
// called automatically when a default config is created.
func GenerateSchemaFile() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	schemaFile := filepath.Join(configDir, "config.schema.json")

	data, err := SchemaJSON()
	if err != nil {
		return err
	}

	if err := os.WriteFile(schemaFile, data, filePerm); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}

	fmt.Printf("Generated JSON schema: %s\n", schemaFile)
	return nil
}
