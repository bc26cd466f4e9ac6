package source

import (
	"encoding/json"
	"sync"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/schema"
	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the JSON Schema for domain documents. Unknown keys
// are rejected so that misspelled sections do not silently empty the tree.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}

	s := r.Reflect(&Document{})
	s.Title = "envtree Source Document"
	s.Description = "Workspace, collections and environments projected into environment trees."

	return json.MarshalIndent(s, "", "  ")
}

var (
	validatorOnce sync.Once
	validator     *SchemaValidator
	validatorErr  error
)

// SchemaValidator validates decoded source documents.
type SchemaValidator struct {
	validator *schema.Validator
}

// NewSchemaValidator returns the process-wide source document validator.
func NewSchemaValidator() (*SchemaValidator, error) {
	validatorOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			validatorErr = err
			return
		}
		v, err := schema.NewValidator("envtree-source.schema.json", data)
		if err != nil {
			validatorErr = err
			return
		}
		validator = &SchemaValidator{validator: v}
	})
	return validator, validatorErr
}

// Validate checks raw against the schema and reports failures as INVALID_INPUT.
func (v *SchemaValidator) Validate(raw interface{}) error {
	if err := v.validator.Validate(raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "source document does not match schema")
	}
	return nil
}
