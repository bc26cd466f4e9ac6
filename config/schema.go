package config

import (
	"encoding/json"
	"sync"

	"github.com/grovetools/envtree/schema"
	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for envtree.yml by reflecting the
// Config struct. Extension sections are allowed as additional properties.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		ExpandedStruct:             true,
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
	}

	s := r.Reflect(&Config{})
	s.Title = "envtree Configuration"
	s.Description = "Schema for envtree.yml."

	return json.MarshalIndent(s, "", "  ")
}

var (
	validatorOnce sync.Once
	validator     *SchemaValidator
	validatorErr  error
)

// SchemaValidator validates raw configuration documents against the generated schema.
type SchemaValidator struct {
	validator *schema.Validator
}

// NewSchemaValidator returns the validator for the envtree configuration
// schema. The schema is generated and compiled once per process.
func NewSchemaValidator() (*SchemaValidator, error) {
	validatorOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			validatorErr = err
			return
		}
		v, err := schema.NewValidator("envtree.schema.json", data)
		if err != nil {
			validatorErr = err
			return
		}
		validator = &SchemaValidator{validator: v}
	})
	return validator, validatorErr
}

// Validate validates configuration data against the schema.
func (v *SchemaValidator) Validate(configData interface{}) error {
	return v.validator.Validate(configData)
}
