package scope

import (
	"testing"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsEnv(id, wsID string) models.Environment {
	return models.Environment{
		Name: id,
		Meta: models.Meta{Type: models.EnvironmentScopeWorkspace},
		Ref:  models.Ref{ID: id, WorkspaceID: wsID},
	}
}

func colEnv(id, colID string) models.Environment {
	return models.Environment{
		Name: id,
		Meta: models.Meta{Type: models.EnvironmentScopeCollection},
		Ref:  models.Ref{ID: id, CollectionID: colID},
	}
}

func assertKinds(t *testing.T, tr tree.Tree) {
	t.Helper()
	for id, n := range tr {
		kinds := 0
		for _, k := range []bool{n.Data.IsRoot(), n.Data.IsWorkspace(), n.Data.IsCollection(), n.Data.IsEnvironment()} {
			if k {
				kinds++
			}
		}
		assert.Equal(t, 1, kinds, "node %s must carry exactly one kind", id)
	}
}

func TestWorkspaceBuild(t *testing.T) {
	ws := models.Workspace{Name: "My Workspace", Ref: models.Ref{ID: "w1"}}
	s := NewWorkspace(ws)

	tr, err := s.Build([]models.Environment{
		wsEnv("e1", "w1"),
		colEnv("c-env", "c1"),
		wsEnv("e2", "w1"),
	})
	require.NoError(t, err)
	require.NoError(t, tr.Validate())
	assertKinds(t, tr)

	assert.Equal(t, []string{"w1"}, tr[tree.RootID].Children)
	assert.Equal(t, []string{"e1", "e2"}, tr["w1"].Children)
	assert.True(t, tr["w1"].HasChildren)
	assert.True(t, tr["w1"].Data.IsWorkspace())
	assert.Equal(t, "My Workspace", tr["w1"].Data.Name)

	leaf := tr["e1"]
	assert.Empty(t, leaf.Children)
	assert.False(t, leaf.HasChildren)
	assert.Equal(t, "w1", leaf.Data.ParentID)
	_, excluded := tr["c-env"]
	assert.False(t, excluded)
}

func TestWorkspaceBuildSkipsOtherWorkspaces(t *testing.T) {
	s := NewWorkspace(models.Workspace{Name: "Acme", Ref: models.Ref{ID: "w1"}})

	tr, err := s.Build([]models.Environment{
		wsEnv("e1", "w1"),
		wsEnv("foreign", "w2"),
		wsEnv("implicit", ""),
	})
	require.NoError(t, err)
	require.NoError(t, tr.Validate())

	assert.Equal(t, []string{"e1", "implicit"}, tr["w1"].Children)
	_, placed := tr["foreign"]
	assert.False(t, placed)
}

func TestWorkspaceBuildEmpty(t *testing.T) {
	tr, err := NewWorkspace(models.Workspace{Ref: models.Ref{ID: "w1"}}).Build(nil)
	require.NoError(t, err)
	assert.Len(t, tr, 2)
	assert.Empty(t, tr["w1"].Children)
	assert.NoError(t, tr.Validate())
}

func TestWorkspaceBuildRejectsDuplicates(t *testing.T) {
	s := NewWorkspace(models.Workspace{Ref: models.Ref{ID: "w1"}})

	_, err := s.Build([]models.Environment{wsEnv("e1", "w1"), wsEnv("e1", "w1")})
	assert.True(t, errors.Is(err, errors.ErrCodeInvariantViolation))

	_, err = s.Build([]models.Environment{wsEnv("w1", "w1")})
	assert.True(t, errors.Is(err, errors.ErrCodeInvariantViolation))

	_, err = s.Build([]models.Environment{wsEnv(tree.RootID, "w1")})
	assert.True(t, errors.Is(err, errors.ErrCodeInvariantViolation))

	_, err = NewWorkspace(models.Workspace{}).Build(nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCollectionBuild(t *testing.T) {
	s := NewCollection([]models.Collection{
		{Name: "Users API", Ref: models.Ref{ID: "c1"}},
		{Name: "Billing", Ref: models.Ref{ID: "c2"}},
	})

	tr, err := s.Build([]models.Environment{
		colEnv("e1", "c1"),
		colEnv("e2", "c2"),
		colEnv("e3", "c1"),
		colEnv("orphan", "c9"),
		wsEnv("w-env", "w1"),
	})
	require.NoError(t, err)
	require.NoError(t, tr.Validate())
	assertKinds(t, tr)

	assert.Equal(t, []string{"c1", "c2"}, tr[tree.RootID].Children)
	assert.Equal(t, []string{"e1", "e3"}, tr["c1"].Children)
	assert.Equal(t, []string{"e2"}, tr["c2"].Children)
	assert.True(t, tr["c2"].Data.IsCollection())
	assert.Equal(t, "c1", tr["e3"].Data.ParentID)
	assert.NotContains(t, tr, "orphan")
	assert.NotContains(t, tr, "w-env")
}

func TestCollectionBuildEmptyCollectionHasChildren(t *testing.T) {
	tr, err := NewCollection([]models.Collection{{Ref: models.Ref{ID: "c1"}}}).Build(nil)
	require.NoError(t, err)
	assert.True(t, tr["c1"].HasChildren)
	assert.NotNil(t, tr["c1"].Children)
	assert.Empty(t, tr["c1"].Children)
}

func TestCollectionBuildRejectsDuplicateCollections(t *testing.T) {
	s := NewCollection([]models.Collection{{Ref: models.Ref{ID: "c1"}}, {Ref: models.Ref{ID: "c1"}}})
	_, err := s.Build(nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvariantViolation))
}

func TestParentOf(t *testing.T) {
	ws := NewWorkspace(models.Workspace{Ref: models.Ref{ID: "w1"}})
	parent, ok := ws.ParentOf(wsEnv("e1", "w1"))
	assert.True(t, ok)
	assert.Equal(t, "w1", parent)
	_, ok = ws.ParentOf(colEnv("e2", "c1"))
	assert.False(t, ok)
	_, ok = ws.ParentOf(wsEnv("e5", "w2"))
	assert.False(t, ok, "environments of another workspace are not placed")
	parent, ok = ws.ParentOf(wsEnv("e6", ""))
	assert.True(t, ok, "an unset workspace reference means this workspace")
	assert.Equal(t, "w1", parent)

	col := NewCollection([]models.Collection{{Ref: models.Ref{ID: "c1"}}})
	parent, ok = col.ParentOf(colEnv("e2", "c1"))
	assert.True(t, ok)
	assert.Equal(t, "c1", parent)
	_, ok = col.ParentOf(colEnv("e3", "c2"))
	assert.False(t, ok)
	_, ok = col.ParentOf(wsEnv("e4", "w1"))
	assert.False(t, ok)
}

func TestByName(t *testing.T) {
	ws := models.Workspace{Ref: models.Ref{ID: "w1"}}

	s, err := ByName("workspace", ws, nil)
	require.NoError(t, err)
	assert.Equal(t, NameWorkspace, s.Name())

	s, err = ByName(" Collection ", ws, nil)
	require.NoError(t, err)
	assert.Equal(t, NameCollection, s.Name())

	s, err = ByName("", ws, nil)
	require.NoError(t, err)
	assert.Equal(t, NameWorkspace, s.Name())

	_, err = ByName("folders", ws, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
