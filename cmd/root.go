package cmd

import (
	"github.com/grovetools/envtree/cli"
	"github.com/grovetools/envtree/pkg/profiling"
	"github.com/grovetools/envtree/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the envtree command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"envtree",
		"Observable environment trees for workspaces and collections",
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(rootCmd)
	bindEnv := rootCmd.PersistentPreRunE
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := bindEnv(cmd, args); err != nil {
			return err
		}
		return profiler.PreRun(cmd, args)
	}
	rootCmd.PersistentPostRunE = profiler.PostRun

	rootCmd.AddCommand(NewShowCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
