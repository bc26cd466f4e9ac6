// Package source loads the domain document a tree is projected from: one
// workspace, its collections and the environments that belong to either.
package source

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a domain document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unsupported source format '%s' (expected .yml, .yaml, .json or .toml)", filepath.Ext(path))).
			WithDetail("path", path)
	}
}

// Document is the decoded domain document.
type Document struct {
	Version      string               `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Document version"`
	Workspace    models.Workspace     `json:"workspace" yaml:"workspace" toml:"workspace" jsonschema:"required,description=Workspace that owns every collection and workspace-level environment"`
	Collections  []models.Collection  `json:"collections,omitempty" yaml:"collections,omitempty" toml:"collections,omitempty" jsonschema:"description=Collections shown by the collection scope"`
	Environments []models.Environment `json:"environments,omitempty" yaml:"environments,omitempty" toml:"environments,omitempty" jsonschema:"description=Workspace-level and collection-level environments"`
}

// Parse decodes data in the given format, validates it against the document
// schema and normalizes it.
func Parse(data []byte, format Format) (*Document, error) {
	var raw interface{}
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatTOML:
		var table map[string]interface{}
		err = toml.Unmarshal(data, &table)
		raw = table
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported source format '%s'", format))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("failed to parse %s", strings.ToUpper(string(format))))
	}

	// An empty YAML file decodes to nil; let the schema report the missing workspace.
	if raw == nil {
		raw = map[string]interface{}{}
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create source validator")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, err
	}

	var doc Document
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("failed to decode %s", strings.ToUpper(string(format))))
	}

	if err := doc.Normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Normalize fills in what the document may leave implicit. Records without
// an id get one derived from their name and container so reloads keep the
// same identifiers. Environments without a scope flag are collection-level
// when they reference a collection and workspace-level otherwise.
func (d *Document) Normalize() error {
	if strings.TrimSpace(d.Workspace.Ref.ID) == "" {
		d.Workspace.Ref.ID = models.DeriveID("workspace", d.Workspace.Name)
	}

	for i := range d.Collections {
		c := &d.Collections[i]
		if strings.TrimSpace(c.Ref.ID) == "" {
			c.Ref.ID = models.DeriveID("collection", d.Workspace.Ref.ID, c.Name)
		}
		if c.Ref.WorkspaceID == "" {
			c.Ref.WorkspaceID = d.Workspace.Ref.ID
		}
	}

	for i := range d.Environments {
		env := &d.Environments[i]
		if env.Meta.Type == "" {
			if env.Ref.CollectionID != "" {
				env.Meta.Type = models.EnvironmentScopeCollection
			} else {
				env.Meta.Type = models.EnvironmentScopeWorkspace
			}
		}
		if !env.Meta.Type.Valid() {
			return errors.InvalidInput(fmt.Sprintf("environment '%s' has unknown scope '%s'", env.Name, env.Meta.Type))
		}

		parent := env.Ref.CollectionID
		if env.IsWorkspaceScoped() {
			if env.Ref.WorkspaceID == "" {
				env.Ref.WorkspaceID = d.Workspace.Ref.ID
			}
			parent = env.Ref.WorkspaceID
		}
		if strings.TrimSpace(env.Ref.ID) == "" {
			env.Ref.ID = models.DeriveID(string(env.Meta.Type), parent, env.Name)
		}
	}
	return nil
}

// CollectionIDs returns the identifiers of the document's collections in order.
func (d *Document) CollectionIDs() []string {
	ids := make([]string, 0, len(d.Collections))
	for _, c := range d.Collections {
		ids = append(ids, c.Ref.ID)
	}
	return ids
}
