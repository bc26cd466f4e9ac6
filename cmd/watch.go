package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/envtree/cli"
	"github.com/grovetools/envtree/pkg/notify"
	"github.com/grovetools/envtree/pkg/reconcile"
	"github.com/grovetools/envtree/pkg/source"
	"github.com/spf13/cobra"
)

// changeEvent is one line of watch output in JSON mode.
type changeEvent struct {
	Time    time.Time         `json:"time"`
	Changed []string          `json:"changed,omitempty"`
	Result  *reconcile.Result `json:"result,omitempty"`
	Reset   bool              `json:"reset,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func NewWatchCmd() *cobra.Command {
	var (
		scopeName  string
		debounceMs int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the source document and report tree changes",
		Long: `Watch the source document and keep the environment tree in sync.

Every save of the source document is reconciled against the current tree.
Added, removed, renamed and moved environments are applied as individual
tree mutations and the identifiers of the changed nodes are printed. When
the workspace or the collections change the tree is rebuilt instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			logger := cli.GetLogger(cmd)
			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("debounce-ms") && os.Getenv(cli.EnvPrefix+"DEBOUNCE_MS") == "" {
				debounceMs = cfg.Watch.DebounceMs
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openSession(ctx, cfg, scopeName)
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			emit := func(ev changeEvent) {
				writeEvent(out, ev, opts.JSONOutput)
			}

			var sub *notify.Subscription
			attach := func() {
				if sub != nil {
					sub.Dispose()
				}
				sub = s.provider.OnDidChangeTreeData(func(ids []string) {
					emit(changeEvent{Time: time.Now(), Changed: ids})
				})
			}
			attach()

			if !opts.JSONOutput {
				renderText(out, s.provider.Snapshot(), false)
			}

			// The watcher callback runs on a timer goroutine; hop onto the
			// session loop so every provider call happens on one goroutine.
			onChange := func(doc *source.Document, err error) {
				s.loop.Schedule(func() {
					if err != nil {
						emit(changeEvent{Time: time.Now(), Error: err.Error()})
						return
					}
					if !s.sameContainers(doc) {
						if err := s.build(ctx, doc, scopeName); err != nil {
							emit(changeEvent{Time: time.Now(), Error: err.Error()})
							return
						}
						attach()
						emit(changeEvent{Time: time.Now(), Reset: true})
						return
					}
					res, err := reconcile.New(s.provider).Apply(ctx, doc.Environments)
					if err != nil {
						emit(changeEvent{Time: time.Now(), Error: err.Error()})
						return
					}
					s.doc = doc
					if res.Changed() {
						emit(changeEvent{Time: time.Now(), Result: &res})
					}
				})
			}

			watcher, err := source.NewWatcher(s.loader, debounceMs, onChange)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", s.loader.Path(), err)
			}
			go watcher.Start(ctx)

			logger.WithField("path", s.loader.Path()).Info("Watching source document")
			if err := s.loop.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeName, "scope", "", "Tree scope: workspace or collection (overrides provider.scope)")
	cmd.Flags().IntVar(&debounceMs, "debounce-ms", 0, "Milliseconds to wait after a change before reloading (overrides watch.debounce_ms)")

	return cmd
}

func writeEvent(w io.Writer, ev changeEvent, asJSON bool) {
	if asJSON {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		fmt.Fprintln(w, string(data))
		return
	}

	stamp := ev.Time.Format("15:04:05")
	switch {
	case ev.Error != "":
		fmt.Fprintf(w, "%s error: %s\n", stamp, ev.Error)
	case ev.Reset:
		fmt.Fprintf(w, "%s tree rebuilt\n", stamp)
	case ev.Result != nil:
		fmt.Fprintf(w, "%s reconciled: %d added, %d removed, %d renamed, %d moved\n",
			stamp, len(ev.Result.Added), len(ev.Result.Removed), len(ev.Result.Renamed), len(ev.Result.Moved))
	default:
		fmt.Fprintf(w, "%s changed: %v\n", stamp, ev.Changed)
	}
}
