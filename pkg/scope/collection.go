package scope

import (
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/tree"
)

// Collection shapes the tree as root → collections → environments of each collection.
type Collection struct {
	collections []models.Collection
	index       map[string]struct{}
}

// NewCollection creates a collection-scoped strategy. The collection order is
// the display order under root.
func NewCollection(cols []models.Collection) *Collection {
	index := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		index[c.Ref.ID] = struct{}{}
	}
	return &Collection{
		collections: append([]models.Collection(nil), cols...),
		index:       index,
	}
}

// Name implements Strategy.
func (s *Collection) Name() string { return NameCollection }

// ParentOf attaches an environment to the collection it references.
func (s *Collection) ParentOf(env models.Environment) (string, bool) {
	if env.IsWorkspaceScoped() || env.Ref.CollectionID == "" {
		return "", false
	}
	if _, ok := s.index[env.Ref.CollectionID]; !ok {
		return "", false
	}
	return env.Ref.CollectionID, true
}

// Build implements Strategy. Environments whose collection is not part of
// this view are left out so that no node is orphaned.
func (s *Collection) Build(envs []models.Environment) (tree.Tree, error) {
	ids := idSet{}
	t := tree.Tree{}

	rootChildren := make([]string, 0, len(s.collections))
	for _, c := range s.collections {
		if err := ids.claim(c.Ref.ID, "collection '"+c.Name+"'"); err != nil {
			return nil, err
		}
		rootChildren = append(rootChildren, c.Ref.ID)
		t[c.Ref.ID] = tree.Node{
			ID:          c.Ref.ID,
			Children:    []string{},
			HasChildren: true,
			Data:        models.CollectionData(c, tree.RootID),
		}
	}

	for _, env := range envs {
		parentID, ok := s.ParentOf(env)
		if !ok {
			continue
		}
		if err := ids.claim(env.Ref.ID, "environment '"+env.Name+"'"); err != nil {
			return nil, err
		}
		parent := t[parentID]
		parent.Children = append(parent.Children, env.Ref.ID)
		t[parentID] = parent
		t[env.Ref.ID] = tree.NewLeaf(env, parentID)
	}

	t[tree.RootID] = tree.NewRoot(rootChildren)
	return t, nil
}
