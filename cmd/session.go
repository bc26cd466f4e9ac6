package cmd

import (
	"context"

	"github.com/grovetools/envtree/config"
	"github.com/grovetools/envtree/logging"
	"github.com/grovetools/envtree/pkg/profiling"
	"github.com/grovetools/envtree/pkg/provider"
	"github.com/grovetools/envtree/pkg/scheduler"
	"github.com/grovetools/envtree/pkg/scope"
	"github.com/grovetools/envtree/pkg/source"
)

// session ties a loaded source document to a provider built for it.
type session struct {
	cfg      *config.Config
	loader   *source.Loader
	doc      *source.Document
	provider *provider.Provider
	loop     *scheduler.Loop
}

// openSession loads the configured source document and builds a provider
// whose deferred notifications run on the returned loop. scopeName overrides
// the configured scope when set.
func openSession(ctx context.Context, cfg *config.Config, scopeName string) (*session, error) {
	loadSpan := profiling.Start("load source")
	loader, err := source.NewLoader(cfg.Source.Path, cfg.Source.Exclude)
	if err != nil {
		loadSpan.Stop()
		return nil, err
	}
	doc, err := loader.Load()
	loadSpan.Stop()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		loader: loader,
		loop:   scheduler.NewLoop(),
	}
	if scopeName == "" {
		scopeName = cfg.Provider.Scope
	}
	if err := s.build(ctx, doc, scopeName); err != nil {
		return nil, err
	}
	return s, nil
}

// build replaces the session's provider with one shaped for doc.
func (s *session) build(ctx context.Context, doc *source.Document, scopeName string) error {
	defer profiling.Start("build tree").Stop()

	strategy, err := scope.ByName(scopeName, doc.Workspace, doc.Collections)
	if err != nil {
		return err
	}

	p, err := provider.New(strategy,
		provider.WithScheduler(s.loop),
		provider.WithLogger(logging.NewLogger("envtree-provider").WithField("source", s.loader.Path())),
		provider.WithStrictChildren(s.cfg.Provider.StrictChildren),
		provider.WithValidation(s.cfg.Provider.Validate),
	)
	if err != nil {
		return err
	}
	if err := p.Initialize(ctx, doc.Environments); err != nil {
		p.Dispose()
		return err
	}

	if s.provider != nil {
		s.provider.Dispose()
	}
	s.provider = p
	s.doc = doc
	return nil
}

// sameContainers reports whether doc keeps the workspace and collections the
// current provider was built for.
func (s *session) sameContainers(doc *source.Document) bool {
	if s.doc.Workspace.Ref.ID != doc.Workspace.Ref.ID || s.doc.Workspace.Name != doc.Workspace.Name {
		return false
	}
	if len(s.doc.Collections) != len(doc.Collections) {
		return false
	}
	for i, c := range s.doc.Collections {
		if c != doc.Collections[i] {
			return false
		}
	}
	return true
}

func (s *session) close() {
	if s.provider != nil {
		s.provider.Dispose()
	}
	s.loop.Close()
}
