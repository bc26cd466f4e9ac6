// Package scope decides how a flat list of environments becomes a
// root → container → environment tree.
package scope

import (
	"fmt"
	"strings"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/tree"
)

const (
	NameWorkspace  = "workspace"
	NameCollection = "collection"
)

// Strategy derives a provider's tree shape.
type Strategy interface {
	// Name identifies the strategy in logs and configuration.
	Name() string

	// Build returns a fresh tree for envs. The result must satisfy the tree
	// invariants; environments that do not belong to the view are skipped.
	Build(envs []models.Environment) (tree.Tree, error)

	// ParentOf returns the container an environment attaches to, or false if
	// the environment is outside this view.
	ParentOf(env models.Environment) (string, bool)
}

// ByName selects a strategy by its configured name.
func ByName(name string, ws models.Workspace, cols []models.Collection) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameWorkspace, "":
		return NewWorkspace(ws), nil
	case NameCollection:
		return NewCollection(cols), nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown scope '%s' (expected %s or %s)", name, NameWorkspace, NameCollection)).
			WithDetail("scope", name)
	}
}

// idSet tracks identifiers already placed in a tree under construction.
type idSet map[string]struct{}

func (s idSet) claim(id, what string) error {
	if strings.TrimSpace(id) == "" {
		return errors.InvalidInput(fmt.Sprintf("%s has an empty id", what))
	}
	if id == tree.RootID {
		return errors.New(errors.ErrCodeInvariantViolation, fmt.Sprintf("%s uses the reserved id '%s'", what, tree.RootID)).
			WithDetail("id", id)
	}
	if _, ok := s[id]; ok {
		return errors.DuplicateNode(id)
	}
	s[id] = struct{}{}
	return nil
}
