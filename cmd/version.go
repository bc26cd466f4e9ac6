package cmd

import (
	"github.com/grovetools/envtree/cli"
	"github.com/spf13/cobra"
)

func NewVersionCmd() *cobra.Command {
	return cli.NewVersionCommand("envtree")
}
