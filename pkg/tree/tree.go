package tree

import (
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/grovetools/envtree/pkg/models"
)

// RootID is the reserved identifier of the synthetic root node.
const RootID = "root"

// Node is one entry in the tree.
type Node struct {
	ID string `json:"index"`

	// Children holds child identifiers in display order.
	Children []string `json:"children"`

	// HasChildren marks containers, independent of whether Children is currently empty.
	HasChildren bool            `json:"hasChildren"`
	Data        models.NodeData `json:"data"`
}

// Clone returns a copy of n whose Children slice is detached.
func (n Node) Clone() Node {
	out := n
	out.Children = append(make([]string, 0, len(n.Children)), n.Children...)
	return out
}

// HasChild reports whether id is listed in n's children.
func (n Node) HasChild(id string) bool {
	for _, c := range n.Children {
		if c == id {
			return true
		}
	}
	return false
}

// Tree maps node identifiers to nodes.
type Tree map[string]Node

// NewRoot returns a root node with the given children.
func NewRoot(children []string) Node {
	return Node{
		ID:          RootID,
		Children:    children,
		HasChildren: true,
		Data:        models.RootData(),
	}
}

// NewLeaf returns an environment leaf attached to parentID.
func NewLeaf(env models.Environment, parentID string) Node {
	return Node{
		ID:          env.Ref.ID,
		Children:    []string{},
		HasChildren: false,
		Data:        models.EnvironmentData(env, parentID),
	}
}

// Clone returns a shallow copy of the map. Nodes are values, so writes to the
// copy never reach t; children slices must still be cloned before mutation.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for id, n := range t {
		out[id] = n
	}
	return out
}

// Validate checks the structural invariants and returns every violation found.
//
//  1. exactly one root, not listed as anyone's child
//  2. every other node has exactly one parent
//  3. every child id exists
//  4. no children list contains duplicates
func (t Tree) Validate() error {
	var errs []error

	if _, ok := t[RootID]; !ok {
		errs = append(errs, fmt.Errorf("missing root node"))
	}

	parents := make(map[string][]string, len(t))
	for _, id := range sortedKeys(t) {
		n := t[id]
		if n.ID != id {
			errs = append(errs, fmt.Errorf("node keyed '%s' has index '%s'", id, n.ID))
		}
		seen := make(map[string]struct{}, len(n.Children))
		for _, c := range n.Children {
			if _, dup := seen[c]; dup {
				errs = append(errs, fmt.Errorf("node '%s' lists child '%s' more than once", id, c))
				continue
			}
			seen[c] = struct{}{}
			if _, ok := t[c]; !ok {
				errs = append(errs, fmt.Errorf("node '%s' references missing child '%s'", id, c))
			}
			parents[c] = append(parents[c], id)
		}
	}

	if ps := parents[RootID]; len(ps) > 0 {
		errs = append(errs, fmt.Errorf("root is listed as a child of %v", ps))
	}
	for _, id := range sortedKeys(t) {
		if id == RootID {
			continue
		}
		switch ps := parents[id]; len(ps) {
		case 0:
			errs = append(errs, fmt.Errorf("node '%s' is orphaned", id))
		case 1:
		default:
			errs = append(errs, fmt.Errorf("node '%s' has multiple parents %v", id, ps))
		}
	}

	return stderrors.Join(errs...)
}

func sortedKeys(t Tree) []string {
	keys := make([]string, 0, len(t))
	for id := range t {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}
