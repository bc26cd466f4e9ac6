package scope

import (
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/tree"
)

// Workspace shapes the tree as root → workspace → workspace-level environments.
type Workspace struct {
	workspace models.Workspace
}

// NewWorkspace creates a workspace-scoped strategy.
func NewWorkspace(ws models.Workspace) *Workspace {
	return &Workspace{workspace: ws}
}

// Name implements Strategy.
func (s *Workspace) Name() string { return NameWorkspace }

// ParentOf attaches workspace-level environments to the workspace node.
// Environments that name a different workspace are not part of this view.
func (s *Workspace) ParentOf(env models.Environment) (string, bool) {
	if !s.owns(env) {
		return "", false
	}
	return s.workspace.Ref.ID, true
}

func (s *Workspace) owns(env models.Environment) bool {
	if !env.IsWorkspaceScoped() {
		return false
	}
	return env.Ref.WorkspaceID == "" || env.Ref.WorkspaceID == s.workspace.Ref.ID
}

// Build implements Strategy.
func (s *Workspace) Build(envs []models.Environment) (tree.Tree, error) {
	ids := idSet{}
	wsID := s.workspace.Ref.ID
	if err := ids.claim(wsID, "workspace"); err != nil {
		return nil, err
	}

	t := tree.Tree{}
	children := make([]string, 0, len(envs))
	for _, env := range envs {
		if !s.owns(env) {
			continue
		}
		if err := ids.claim(env.Ref.ID, "environment '"+env.Name+"'"); err != nil {
			return nil, err
		}
		children = append(children, env.Ref.ID)
		t[env.Ref.ID] = tree.NewLeaf(env, wsID)
	}

	t[tree.RootID] = tree.NewRoot([]string{wsID})
	t[wsID] = tree.Node{
		ID:          wsID,
		Children:    children,
		HasChildren: true,
		Data:        models.WorkspaceData(s.workspace, tree.RootID),
	}
	return t, nil
}
