package resume

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("resume.json", bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("failed to load resume schema: %v", err))
	}
	schema, err := compiler.Compile("resume.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile resume schema: %v", err))
	}
	return schema
}

// SchemaJSON returns the canonical JSON schema document.
func SchemaJSON() []byte {
	return schemaJSON
}

// Validate checks parsed JSON against the canonical schema. Section
// presence and types are enforced; missing leaf fields are left for
// Normalize to repair.
func Validate(raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode resume JSON for validation: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("resume does not match schema: %w", err)
	}
	return nil
}
