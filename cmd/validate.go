package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/envtree/cli"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/grovetools/envtree/pkg/scope"
	"github.com/grovetools/envtree/pkg/tree"
	"github.com/spf13/cobra"
)

// ValidateReport summarizes one scope's tree.
type ValidateReport struct {
	Scope        string   `json:"scope"`
	Nodes        int      `json:"nodes"`
	Environments int      `json:"environments"`
	Skipped      []string `json:"skipped,omitempty"`
}

func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and source document",
		Long: `Load envtree.yml and the source document, build the tree for every
scope and check the tree invariants. Environments that no scope can place
(for example ones referencing an unknown collection) are listed as skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cfg, "")
			if err != nil {
				return err
			}
			defer s.close()

			var reports []ValidateReport
			placed := make(map[string]bool)
			for _, name := range []string{scope.NameWorkspace, scope.NameCollection} {
				strategy, err := scope.ByName(name, s.doc.Workspace, s.doc.Collections)
				if err != nil {
					return err
				}
				t, err := strategy.Build(s.doc.Environments)
				if err != nil {
					return fmt.Errorf("%s scope: %w", name, err)
				}
				snap := tree.NewSnapshot(t)
				if err := snap.Validate(); err != nil {
					return fmt.Errorf("%s scope: %w", name, err)
				}

				report := ValidateReport{Scope: name, Nodes: snap.Len()}
				for _, env := range s.doc.Environments {
					if snap.Has(env.Ref.ID) {
						report.Environments++
						placed[env.Ref.ID] = true
					}
				}
				reports = append(reports, report)
			}

			skipped := unplaced(s.doc.Environments, placed)
			for i := range reports {
				reports[i].Skipped = skipped
			}

			out := cmd.OutOrStdout()
			if opts.JSONOutput {
				data, err := json.MarshalIndent(reports, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "Source %s is valid\n", s.loader.Path())
			for _, r := range reports {
				fmt.Fprintf(out, "  %-10s %d nodes, %d environments\n", r.Scope, r.Nodes, r.Environments)
			}
			for _, name := range skipped {
				fmt.Fprintf(out, "  skipped: %s\n", name)
			}
			return nil
		},
	}

	return cmd
}

func unplaced(envs []models.Environment, placed map[string]bool) []string {
	var names []string
	for _, env := range envs {
		if !placed[env.Ref.ID] {
			names = append(names, env.Name)
		}
	}
	return names
}
