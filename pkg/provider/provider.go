// Package provider implements the observable tree provider that backs
// environment tree views.
//
// A Provider owns one tree snapshot, one change notifier and one scoping
// strategy. Mutations build a new snapshot from the current one and swap it
// in atomically, then publish the identifiers they touched. Readers never see
// a partially applied mutation and never block writers.
//
// The initial ["root"] notification is deferred through a scheduler so that
// subscribers registered right after New still receive it. By default the
// provider queues it on its own scheduler.Loop: the host delivers it with
// Flush, and any later notification flushes it first, so a handler never
// sees a mutation before ["root"]. Hosts with their own event loop pass it
// through WithScheduler instead.
package provider

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/logging"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/notify"
	"github.com/grovetools/envtree/pkg/scheduler"
	"github.com/grovetools/envtree/pkg/scope"
	"github.com/grovetools/envtree/pkg/tree"
	"github.com/sirupsen/logrus"
)

// Provider is the observable hierarchical tree store.
type Provider struct {
	strategy  scope.Strategy
	scheduler scheduler.Scheduler
	pending   *scheduler.Loop // nil when WithScheduler was given
	notifier  *notify.Notifier
	logger    *logrus.Entry

	strictChildren bool
	validate       bool

	// mu serializes mutations; snapshot is swapped under mu and read without it.
	mu       sync.Mutex
	snapshot atomic.Pointer[tree.Snapshot]
	disposed atomic.Bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithScheduler sets the scheduler used to defer the initial notification.
// The host is then responsible for running scheduled tasks after the
// constructing call returns.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(p *Provider) {
		if s != nil {
			p.scheduler = s
		}
	}
}

// WithLogger sets the logger. The default is logging.NewLogger("envtree-provider").
func WithLogger(logger *logrus.Entry) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStrictChildren makes SetChildren reject lists that reference unknown
// or duplicate identifiers instead of committing them.
func WithStrictChildren(strict bool) Option {
	return func(p *Provider) {
		p.strictChildren = strict
	}
}

// WithValidation checks every committed snapshot against the tree invariants
// and logs violations at warn level.
func WithValidation(validate bool) Option {
	return func(p *Provider) {
		p.validate = validate
	}
}

// New creates a provider for strategy and initializes it with an empty
// environment list. The resulting ["root"] notification is delivered on the
// scheduler's next tick, which for the default scheduler is the next Flush
// or the next mutation notification.
func New(strategy scope.Strategy, opts ...Option) (*Provider, error) {
	if strategy == nil {
		return nil, errors.InvalidInput("provider requires a scoping strategy")
	}
	p := &Provider{
		strategy: strategy,
		notifier: notify.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.scheduler == nil {
		p.pending = scheduler.NewLoop()
		p.scheduler = p.pending
	}
	if p.logger == nil {
		p.logger = logging.NewLogger("envtree-provider")
	}
	p.logger = p.logger.WithField("scope", strategy.Name())
	p.snapshot.Store(tree.NewSnapshot(nil))

	if err := p.Initialize(context.Background(), nil); err != nil {
		return nil, err
	}
	return p, nil
}

// Strategy returns the scoping strategy the provider was built with.
func (p *Provider) Strategy() scope.Strategy {
	return p.strategy
}

// Get returns the current node for id. A false result means the item no
// longer exists, which callers should treat as a normal outcome.
func (p *Provider) Get(id string) (tree.Node, bool) {
	return p.snapshot.Load().Get(id)
}

// Snapshot returns the current immutable snapshot for consistent multi-node reads.
func (p *Provider) Snapshot() *tree.Snapshot {
	return p.snapshot.Load()
}

// Subscribe registers handler for change notifications. Dispose the returned
// subscription to unregister exactly this handler.
func (p *Provider) Subscribe(handler notify.Handler) *notify.Subscription {
	return p.notifier.Subscribe(handler)
}

// OnDidChangeTreeData is Subscribe for plain functions.
func (p *Provider) OnDidChangeTreeData(fn func(ids []string)) *notify.Subscription {
	return p.notifier.Subscribe(notify.HandlerFunc(fn))
}

// Flush delivers deferred notifications queued on the provider's own
// scheduler, on the calling goroutine. It returns the number delivered and
// is a no-op for providers built WithScheduler.
func (p *Provider) Flush() int {
	if p.pending == nil {
		return 0
	}
	return p.pending.Drain()
}

// Dispose drops all subscribers and rejects further mutations. Reads keep
// returning the last committed snapshot.
func (p *Provider) Dispose() {
	if p.disposed.Swap(true) {
		return
	}
	p.notifier.Close()
	if p.pending != nil {
		p.pending.Close()
	}
	p.logger.Debug("Provider disposed")
}

// Disposed reports whether Dispose has been called.
func (p *Provider) Disposed() bool {
	return p.disposed.Load()
}

// begin checks the preconditions shared by every mutation.
func (p *Provider) begin(ctx context.Context) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if p.disposed.Load() {
		return errors.ProviderDisposed()
	}
	return nil
}

// commit swaps in next. Callers hold p.mu.
func (p *Provider) commit(next *tree.Snapshot, op string) {
	p.snapshot.Store(next)
	if p.validate {
		if err := next.Validate(); err != nil {
			p.logger.WithField("op", op).WithError(err).Warn("Tree invariants violated after mutation")
		}
	}
}

// publish delivers a mutation notification after any deferred one still
// queued on the provider's own scheduler.
func (p *Provider) publish(ids ...string) {
	p.Flush()
	p.deliver(ids)
}

func (p *Provider) deliver(ids []string) {
	if p.disposed.Load() {
		return
	}
	p.notifier.Publish(ids)
}

// Initialize rebuilds the tree from envs using the scoping strategy and
// replaces the current snapshot. The ["root"] notification is deferred to
// the scheduler's next tick. If the strategy fails the previous snapshot
// is kept.
func (p *Provider) Initialize(ctx context.Context, envs []models.Environment) error {
	if err := p.begin(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	t, err := p.strategy.Build(envs)
	if err != nil {
		p.mu.Unlock()
		p.logger.WithError(err).Warn("Failed to build tree")
		return err
	}
	p.commit(tree.NewSnapshot(t), "initialize")
	p.mu.Unlock()

	p.logger.WithField("nodes", len(t)).Debug("Tree initialized")

	p.scheduler.Schedule(func() {
		p.deliver([]string{tree.RootID})
	})
	return nil
}

// Environments returns the environments currently shown, in display order.
func (p *Provider) Environments() []models.Environment {
	var envs []models.Environment
	p.snapshot.Load().Walk(func(n tree.Node, _ int) bool {
		if n.Data.IsEnvironment() && n.Data.Environment != nil {
			envs = append(envs, n.Data.Environment.Clone())
		}
		return true
	})
	return envs
}
