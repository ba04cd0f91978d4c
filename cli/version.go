package cli

import (
	"github.com/skdas20/vaultx/genericclioptions"

	"github.com/spf13/cobra"
)

// Version is the vaultx release version, set at build time via
// -ldflags "-X github.com/skdas20/vaultx/cli.Version=...".
var Version = "dev"

// NewCmdVersion creates the version cobra command.
func NewCmdVersion(stdio *genericclioptions.StdioOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			stdio.Printf("%s\n", Version)
		},
	}
}
