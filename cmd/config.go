package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/envtree/cli"
	"github.com/grovetools/envtree/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config-layers",
		Short: "Display the layered configuration for the current directory",
		Long: `Shows how the final configuration is built by merging layers:
1. Project config (envtree.yml, found by walking up from the current directory)
2. Override files (envtree.override.yml)
This is useful for debugging configuration issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cli.GetOptions(cmd).ConfigFile
			if path == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get current directory: %w", err)
				}
				path, err = config.FindConfigFile(cwd)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			printLayer := func(title string, source string, v interface{}) {
				fmt.Fprintf(out, "--- # %s\n", title)
				if source != "" {
					fmt.Fprintf(out, "# Source: %s\n", source)
				}
				data, _ := yaml.Marshal(v)
				fmt.Fprintln(out, string(data))
			}

			base, err := config.Load(path)
			if err != nil {
				return err
			}
			printLayer("PROJECT CONFIG", path, base)

			for _, override := range config.OverrideFiles(path) {
				data, err := os.ReadFile(override)
				if err != nil {
					return err
				}
				var layer map[string]interface{}
				if err := yaml.Unmarshal(data, &layer); err != nil {
					return fmt.Errorf("failed to parse %s: %w", override, err)
				}
				printLayer("OVERRIDE CONFIG", override, layer)
			}

			final, err := config.LoadWithOverrides(path)
			if err != nil {
				return err
			}
			printLayer("FINAL MERGED CONFIG", "", final)
			return nil
		},
	}
	return cmd
}
