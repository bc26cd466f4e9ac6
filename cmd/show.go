package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/envtree/cli"
	"github.com/spf13/cobra"
)

func NewShowCmd() *cobra.Command {
	var (
		scopeName string
		showIDs   bool
		flat      bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the environment tree for the configured source",
		Long: `Print the environment tree built from the source document.

The scope decides the shape of the tree:
- workspace: the workspace and its workspace-level environments
- collection: every collection and the environments scoped to it

With --json the tree is printed nested; add --flat to print the
identifier-keyed node index instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cfg, scopeName)
			if err != nil {
				return err
			}
			defer s.close()

			snap := s.provider.Snapshot()
			out := cmd.OutOrStdout()

			if !opts.JSONOutput {
				renderText(out, snap, showIDs)
				return nil
			}

			var v interface{} = buildView(snap)
			if flat {
				v = snap.Tree()
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal tree to JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeName, "scope", "", "Tree scope: workspace or collection (overrides provider.scope)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Print node identifiers")
	cmd.Flags().BoolVar(&flat, "flat", false, "With --json, print the flat node index")

	return cmd
}
