package provider

import (
	"context"
	"strings"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/tree"
)

// SetChildren replaces id's children with children verbatim. It is used for
// reordering and drag-and-drop re-parenting; listed nodes that exist get id
// recorded as their parent, and moved environments get id as their
// collection or workspace reference. The caller is responsible for keeping the tree
// consistent (for example by also updating the former parent); only
// WithStrictChildren makes dangling or duplicate entries an error.
// Notifies [id].
func (p *Provider) SetChildren(ctx context.Context, id string, children []string) error {
	if err := p.begin(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	next, err := p.snapshot.Load().With(func(t tree.Tree) error {
		n, ok := t[id]
		if !ok {
			return errors.NodeNotFound(id)
		}
		if p.strictChildren {
			if err := checkChildren(t, id, children); err != nil {
				return err
			}
		}
		n.Children = append(make([]string, 0, len(children)), children...)
		t[id] = n

		// Moved nodes must point back at their new parent for RemoveLeaf,
		// and moved environments carry the new container in their record.
		for _, c := range children {
			child, ok := t[c]
			if !ok || c == id || c == tree.RootID || child.Data.ParentID == id {
				continue
			}
			child.Data.ParentID = id
			if env := child.Data.Environment; env != nil {
				moved := env.Clone()
				switch {
				case n.Data.IsCollection():
					moved.Ref.CollectionID = id
				case n.Data.IsWorkspace():
					moved.Ref.WorkspaceID = id
				}
				child.Data.Environment = &moved
			}
			t[c] = child
		}
		return nil
	})
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.commit(next, "set-children")
	p.mu.Unlock()

	p.logger.WithField("id", id).WithField("children", len(children)).Debug("Children replaced")
	p.publish(id)
	return nil
}

func checkChildren(t tree.Tree, id string, children []string) error {
	seen := make(map[string]struct{}, len(children))
	var missing []string
	for _, c := range children {
		if _, dup := seen[c]; dup {
			return errors.DuplicateChildren(id, c)
		}
		seen[c] = struct{}{}
		if _, ok := t[c]; !ok || c == tree.RootID {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.DanglingChildren(id, missing)
	}
	return nil
}

// Rename updates the display name of id, leaving children and flags as they
// are. Notifies [id].
func (p *Provider) Rename(ctx context.Context, id string, name string) error {
	if err := p.begin(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	next, err := p.snapshot.Load().With(func(t tree.Tree) error {
		n, ok := t[id]
		if !ok {
			return errors.NodeNotFound(id)
		}
		n.Data.Name = name
		if n.Data.Environment != nil {
			env := n.Data.Environment.Clone()
			env.Name = name
			n.Data.Environment = &env
		}
		t[id] = n
		return nil
	})
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.commit(next, "rename")
	p.mu.Unlock()

	p.logger.WithField("id", id).Debug("Node renamed")
	p.publish(id)
	return nil
}

// RenameItem renames the node a tree view handed back. The node's index and
// its payload reference must agree; otherwise the update and the
// notification would address different nodes, so it fails with
// IDENTIFIER_MISMATCH and nothing is published.
func (p *Provider) RenameItem(ctx context.Context, item tree.Node, name string) error {
	if item.ID != item.Data.Ref.ID {
		return errors.IdentifierMismatch(item.ID, item.Data.Ref.ID)
	}
	return p.Rename(ctx, item.ID, name)
}

// InsertLeaf appends env under parentID and adds its leaf node. Notifies
// [parentID].
func (p *Provider) InsertLeaf(ctx context.Context, parentID string, env models.Environment) error {
	if err := p.begin(ctx); err != nil {
		return err
	}
	leafID := env.Ref.ID
	if strings.TrimSpace(leafID) == "" {
		return errors.InvalidInput("environment has an empty id")
	}
	if leafID == tree.RootID {
		return errors.InvalidInput("environment cannot use the reserved id 'root'").WithDetail("id", leafID)
	}

	p.mu.Lock()
	next, err := p.snapshot.Load().With(func(t tree.Tree) error {
		parent, ok := t[parentID]
		if !ok {
			return errors.NodeNotFound(parentID)
		}
		if _, exists := t[leafID]; exists {
			return errors.DuplicateNode(leafID)
		}
		parent.Children = append(append(make([]string, 0, len(parent.Children)+1), parent.Children...), leafID)
		t[parentID] = parent
		t[leafID] = tree.NewLeaf(env, parentID)
		return nil
	})
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.commit(next, "insert-leaf")
	p.mu.Unlock()

	p.logger.WithField("id", leafID).WithField("parent", parentID).Debug("Leaf inserted")
	p.publish(parentID)
	return nil
}

// AddEnvironment inserts env under the container the scoping strategy picks
// for it. It reports false, without mutating, when env does not belong to
// this view.
func (p *Provider) AddEnvironment(ctx context.Context, env models.Environment) (bool, error) {
	parentID, ok := p.strategy.ParentOf(env)
	if !ok {
		p.logger.WithField("id", env.Ref.ID).Debug("Environment outside provider scope, skipped")
		return false, nil
	}
	if err := p.InsertLeaf(ctx, parentID, env); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveLeaf deletes leafID and drops it from the children of the parent
// recorded in its payload. Removing an absent node is a no-op. A node with
// descendants is removed together with them. Notifies [parentID], or
// [leafID] when the recorded parent no longer exists.
func (p *Provider) RemoveLeaf(ctx context.Context, leafID string) error {
	if err := p.begin(ctx); err != nil {
		return err
	}
	if leafID == tree.RootID {
		return errors.InvalidInput("the root node cannot be removed")
	}

	p.mu.Lock()
	current := p.snapshot.Load()
	leaf, ok := current.Get(leafID)
	if !ok {
		p.mu.Unlock()
		p.logger.WithField("id", leafID).Debug("Remove of absent node ignored")
		return nil
	}
	parentID := leaf.Data.ParentID

	var parentFound bool
	next, err := current.With(func(t tree.Tree) error {
		removeSubtree(t, leafID)
		parent, ok := t[parentID]
		if !ok {
			return nil
		}
		parentFound = true
		kept := make([]string, 0, len(parent.Children))
		for _, c := range parent.Children {
			if c != leafID {
				kept = append(kept, c)
			}
		}
		parent.Children = kept
		t[parentID] = parent
		return nil
	})
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.commit(next, "remove-leaf")
	p.mu.Unlock()

	changed := parentID
	if !parentFound {
		changed = leafID
		p.logger.WithField("id", leafID).WithField("parent", parentID).Warn("Removed node whose recorded parent is missing")
	}
	p.logger.WithField("id", leafID).WithField("parent", parentID).Debug("Leaf removed")
	p.publish(changed)
	return nil
}

// removeSubtree deletes id and every node reachable through its children.
func removeSubtree(t tree.Tree, id string) {
	n, ok := t[id]
	if !ok || id == tree.RootID {
		return
	}
	delete(t, id)
	for _, c := range n.Children {
		removeSubtree(t, c)
	}
}
