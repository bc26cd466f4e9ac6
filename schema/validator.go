// Package schema compiles JSON Schemas and validates decoded documents
// against them.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator holds one compiled schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Problem is a single schema violation. Path is a JSON pointer into the
// validated document, "/" for the document itself.
type Problem struct {
	Path    string
	Message string
}

// ValidationError lists every violation found in one document.
type ValidationError struct {
	Schema   string
	Problems []Problem
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems)+1)
	lines = append(lines, "schema validation failed:")
	for _, p := range e.Problems {
		lines = append(lines, fmt.Sprintf("- %s: %s", p.Path, p.Message))
	}
	return strings.Join(lines, "\n")
}

// Paths returns the distinct locations with problems, sorted.
func (e *ValidationError) Paths() []string {
	seen := make(map[string]bool, len(e.Problems))
	var out []string
	for _, p := range e.Problems {
		if !seen[p.Path] {
			seen[p.Path] = true
			out = append(out, p.Path)
		}
	}
	sort.Strings(out)
	return out
}

// NewValidator compiles schemaData, registered under name.
func NewValidator(name string, schemaData []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schemaData)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Validator{name: name, schema: compiled}, nil
}

// Validate checks data, which may be any JSON-marshalable value. Violations
// are reported as a *ValidationError.
func (v *Validator) Validate(data interface{}) error {
	doc, err := toJSONValue(data)
	if err != nil {
		return err
	}

	err = v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validate against %s: %w", v.name, err)
	}
	out := &ValidationError{Schema: v.name}
	flatten(verr, &out.Problems)
	return out
}

// toJSONValue round-trips data through encoding/json so structs and YAML
// maps become the plain types the compiled schema expects.
func toJSONValue(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document for validation: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode document for validation: %w", err)
	}
	return v, nil
}

// flatten keeps the leaves of the cause tree; intermediate nodes only
// repeat their children's messages.
func flatten(err *jsonschema.ValidationError, into *[]Problem) {
	if len(err.Causes) == 0 {
		path := err.InstanceLocation
		if path == "" {
			path = "/"
		}
		*into = append(*into, Problem{Path: path, Message: err.Message})
		return
	}
	for _, c := range err.Causes {
		flatten(c, into)
	}
}
