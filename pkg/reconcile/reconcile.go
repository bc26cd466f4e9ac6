// Package reconcile brings a provider's environment leaves in line with a
// freshly loaded environment list using the provider's mutation operations,
// so that observers receive fine-grained notifications instead of a full
// reset.
package reconcile

import (
	"context"

	"github.com/grovetools/envtree/logging"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/provider"
	"github.com/sirupsen/logrus"
)

// Result lists the environment ids touched by Apply.
type Result struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Renamed []string `json:"renamed,omitempty"`
	Moved   []string `json:"moved,omitempty"`
}

// Changed reports whether Apply mutated the tree.
func (r Result) Changed() bool {
	return len(r.Added)+len(r.Removed)+len(r.Renamed)+len(r.Moved) > 0
}

// Reconciler applies environment lists to one provider.
type Reconciler struct {
	provider *provider.Provider
	logger   *logrus.Entry
}

// New creates a reconciler for p.
func New(p *provider.Provider) *Reconciler {
	return &Reconciler{
		provider: p,
		logger:   logging.NewLogger("envtree-reconcile"),
	}
}

// Apply makes the provider's leaves match envs. Environments outside the
// provider's scope are ignored. Leaves whose container changed are removed
// and inserted under the new one. Variable changes are not tracked; callers
// that need them reflected re-initialize the provider.
func (r *Reconciler) Apply(ctx context.Context, envs []models.Environment) (Result, error) {
	var res Result
	strategy := r.provider.Strategy()
	before := r.provider.Environments()

	current := make(map[string]models.Environment, len(before))
	for _, env := range before {
		current[env.Ref.ID] = env
	}

	desired := make(map[string]models.Environment, len(envs))
	var order []string
	for _, env := range envs {
		if _, ok := strategy.ParentOf(env); !ok {
			continue
		}
		if _, dup := desired[env.Ref.ID]; dup {
			r.logger.WithField("id", env.Ref.ID).Warn("Duplicate environment id ignored")
			continue
		}
		desired[env.Ref.ID] = env
		order = append(order, env.Ref.ID)
	}

	moved := make(map[string]bool)
	for _, env := range before {
		id := env.Ref.ID
		want, keep := desired[id]
		if keep {
			// The node's parent, not the record, is where the leaf is shown.
			newParent, _ := strategy.ParentOf(want)
			if node, ok := r.provider.Get(id); ok && node.Data.ParentID == newParent {
				continue
			}
		}
		if err := r.provider.RemoveLeaf(ctx, id); err != nil {
			return res, err
		}
		if keep {
			moved[id] = true
			delete(current, id)
			continue
		}
		res.Removed = append(res.Removed, id)
	}

	for _, id := range order {
		want := desired[id]
		have, exists := current[id]
		if !exists {
			if _, err := r.provider.AddEnvironment(ctx, want); err != nil {
				return res, err
			}
			if moved[id] {
				res.Moved = append(res.Moved, id)
			} else {
				res.Added = append(res.Added, id)
			}
			continue
		}
		if have.Name != want.Name {
			if err := r.provider.Rename(ctx, id, want.Name); err != nil {
				return res, err
			}
			res.Renamed = append(res.Renamed, id)
		}
	}

	if res.Changed() {
		r.logger.WithFields(logrus.Fields{
			"added":   len(res.Added),
			"removed": len(res.Removed),
			"renamed": len(res.Renamed),
			"moved":   len(res.Moved),
		}).Info("Tree reconciled")
	}
	return res, nil
}
