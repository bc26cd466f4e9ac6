package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/grovetools/envtree/pkg/models"
	"github.com/stretchr/testify/require"
)

// Workspace returns a workspace fixture with the given id.
func Workspace(id string) models.Workspace {
	return models.Workspace{Name: "Workspace " + id, Ref: models.Ref{ID: id}}
}

// Collection returns a collection fixture with the given id.
func Collection(id string) models.Collection {
	return models.Collection{Name: "Collection " + id, Ref: models.Ref{ID: id}}
}

// WorkspaceEnv returns a workspace-scoped environment named after its id.
func WorkspaceEnv(id, workspaceID string) models.Environment {
	return models.Environment{
		Name: id,
		Meta: models.Meta{Type: models.EnvironmentScopeWorkspace},
		Ref:  models.Ref{ID: id, WorkspaceID: workspaceID},
	}
}

// CollectionEnv returns a collection-scoped environment named after its id.
func CollectionEnv(id, collectionID string) models.Environment {
	return models.Environment{
		Name: id,
		Meta: models.Meta{Type: models.EnvironmentScopeCollection},
		Ref:  models.Ref{ID: id, CollectionID: collectionID},
	}
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

// Recorder collects change notifications. Its TreeChanged method satisfies
// notify.Handler.
type Recorder struct {
	mu    sync.Mutex
	calls [][]string
}

// TreeChanged records one notification.
func (r *Recorder) TreeChanged(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ids)
}

// Calls returns the notifications received so far.
func (r *Recorder) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

// Last returns the most recent notification, or nil.
func (r *Recorder) Last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

// Reset forgets recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
