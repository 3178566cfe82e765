package forms

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// fieldsDocumentSchema describes the JSON stored in forms.fields.
const fieldsDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "label", "type", "required"],
    "properties": {
      "id":       {"type": "string", "minLength": 1},
      "label":    {"type": "string", "minLength": 1},
      "type":     {"enum": ["text", "textarea", "number", "date", "checkbox", "select", "radio", "hidden"]},
      "required": {"type": "boolean"},
      "options":  {"type": "array", "items": {"type": "string"}}
    }
  },
  "contains": {
    "type": "object",
    "properties": {
      "id":   {"const": "mother_id"},
      "type": {"const": "hidden"}
    },
    "required": ["id", "type"]
  }
}`

var (
	docSchemaOnce sync.Once
	docSchema     *gojsonschema.Schema
	docSchemaErr  error
)

func fieldsSchema() (*gojsonschema.Schema, error) {
	docSchemaOnce.Do(func() {
		docSchema, docSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(fieldsDocumentSchema))
	})
	return docSchema, docSchemaErr
}

// ValidateFieldsDocument checks a stored fields document: every entry is a
// well-formed field definition and the hidden subject field is present.
func ValidateFieldsDocument(raw []byte) error {
	schema, err := fieldsSchema()
	if err != nil {
		return fmt.Errorf("compile fields schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("fields document: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("fields document invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

// encodeFields marshals fields and validates the resulting document.
func encodeFields(fields []FieldDefinition) ([]byte, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	if err := ValidateFieldsDocument(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// decodeFields validates and unmarshals a stored fields document.
func decodeFields(raw []byte) ([]FieldDefinition, error) {
	if err := ValidateFieldsDocument(raw); err != nil {
		return nil, err
	}
	var fields []FieldDefinition
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}
