// internal/etl/validation/schema.go
package validation

import (
	"fmt"

	"dreamhomes-etl/internal/etl/source"

	"github.com/xeipuuv/gojsonschema"
)

// recordSchema is the shape check applied to each source record before
// loading. Findings are advisory; a failing record still loads.
const recordSchema = `{
	"type": "object",
	"properties": {
		"transaction_id": {"type": "string", "minLength": 1},
		"mls_listing_number": {"type": "string", "minLength": 1},
		"transaction_type": {"type": "string", "enum": ["sale", "rental"]},
		"property_type": {"type": "string"},
		"listing_office_name": {"type": "string"},
		"listing_agent_name": {"type": "string"}
	},
	"required": ["transaction_id", "mls_listing_number", "transaction_type"]
}`

// Validator checks source records against the record schema.
type Validator struct {
	schema *gojsonschema.Schema
}

func New() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile record schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Check returns the schema findings for one record, empty when valid.
func (v *Validator) Check(rec source.Record) ([]string, error) {
	doc := make(map[string]interface{}, len(rec))
	for key := range rec {
		if rec.Has(key) {
			doc[key] = rec.Get(key)
		}
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("record validation failed: %w", err)
	}

	var findings []string
	for _, desc := range result.Errors() {
		findings = append(findings, desc.String())
	}
	return findings, nil
}
