package models

import (
	"strings"

	"github.com/google/uuid"
)

// EnvironmentScope marks whether an environment belongs to a workspace or to a collection.
type EnvironmentScope string

const (
	EnvironmentScopeWorkspace  EnvironmentScope = "W"
	EnvironmentScopeCollection EnvironmentScope = "C"
)

// Valid reports whether s is a known scope flag.
func (s EnvironmentScope) Valid() bool {
	return s == EnvironmentScopeWorkspace || s == EnvironmentScopeCollection
}

// Ref identifies a domain record and the containers it belongs to.
type Ref struct {
	ID           string `json:"id" yaml:"id" toml:"id"`
	WorkspaceID  string `json:"workspaceId,omitempty" yaml:"workspaceId,omitempty" toml:"workspaceId,omitempty"`
	CollectionID string `json:"collectionId,omitempty" yaml:"collectionId,omitempty" toml:"collectionId,omitempty"`
}

// Meta holds classification flags for an environment.
type Meta struct {
	Type EnvironmentScope `json:"type" yaml:"type" toml:"type" jsonschema:"enum=W,enum=C"`
}

// Workspace is the top-level container of workspace-scoped environments.
type Workspace struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Ref  Ref    `json:"__ref" yaml:"__ref" toml:"__ref"`
}

// Collection groups requests and the environments scoped to them.
type Collection struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Ref  Ref    `json:"__ref" yaml:"__ref" toml:"__ref"`
}

// Environment is a named set of variables; it is always a leaf in the tree.
type Environment struct {
	Name      string            `json:"name" yaml:"name" toml:"name"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty" toml:"variables,omitempty"`
	Meta      Meta              `json:"__meta" yaml:"__meta" toml:"__meta"`
	Ref       Ref               `json:"__ref" yaml:"__ref" toml:"__ref"`
}

// NewEnvironment creates an environment with a freshly generated identifier.
// parentID is stored as the workspace or collection reference depending on scope.
func NewEnvironment(name string, scope EnvironmentScope, parentID string) Environment {
	env := Environment{
		Name: name,
		Meta: Meta{Type: scope},
		Ref:  Ref{ID: uuid.NewString()},
	}
	if scope == EnvironmentScopeCollection {
		env.Ref.CollectionID = parentID
	} else {
		env.Ref.WorkspaceID = parentID
	}
	return env
}

// EnsureID assigns a generated identifier when the environment has none.
// It reports whether an identifier was assigned.
func (e *Environment) EnsureID() bool {
	if strings.TrimSpace(e.Ref.ID) != "" {
		return false
	}
	e.Ref.ID = uuid.NewString()
	return true
}

// IsWorkspaceScoped reports whether the environment is flagged as workspace-level.
func (e Environment) IsWorkspaceScoped() bool {
	return e.Meta.Type == EnvironmentScopeWorkspace
}

// IsCollectionScoped reports whether the environment is flagged as collection-level.
func (e Environment) IsCollectionScoped() bool {
	return e.Meta.Type == EnvironmentScopeCollection
}

// Clone returns a copy whose Variables map is detached from e.
func (e Environment) Clone() Environment {
	out := e
	if e.Variables != nil {
		out.Variables = make(map[string]string, len(e.Variables))
		for k, v := range e.Variables {
			out.Variables[k] = v
		}
	}
	return out
}

// DeriveID returns a name-based identifier that is the same every time the
// same parts are supplied.
func DeriveID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(parts, "/"))).String()
}
