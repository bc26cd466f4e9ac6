package cmd

import (
	"fmt"

	"github.com/grovetools/envtree/config"
	"github.com/grovetools/envtree/pkg/source"
	"github.com/spf13/cobra"
)

func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "schema [source|config]",
		Short:     "Print the JSON Schema for source documents or envtree.yml",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"source", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "source"
			if len(args) == 1 {
				kind = args[0]
			}

			var (
				data []byte
				err  error
			)
			switch kind {
			case "source":
				data, err = source.GenerateSchema()
			case "config":
				data, err = config.GenerateSchema()
			default:
				return fmt.Errorf("unknown schema '%s' (expected source or config)", kind)
			}
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	return cmd
}
