package cli

import (
	"context"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/session"

	"github.com/spf13/cobra"
)

type LogoutOptions struct {
	*genericclioptions.StdioOptions
}

var _ genericclioptions.CmdOptions = &LogoutOptions{}

// NewLogoutOptions initializes the options struct.
func NewLogoutOptions(stdio *genericclioptions.StdioOptions) *LogoutOptions {
	return &LogoutOptions{StdioOptions: stdio}
}

func (*LogoutOptions) Complete() error { return nil }

func (*LogoutOptions) Validate() error { return nil }

func (o *LogoutOptions) Run(context.Context) error {
	if err := session.Clear(); err != nil {
		return err
	}

	o.Infof("Logout successful\n")

	return nil
}

// NewCmdLogout creates the logout cobra command.
func NewCmdLogout(stdio *genericclioptions.StdioOptions) *cobra.Command {
	o := NewLogoutOptions(stdio)

	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the cached session passphrase",
		Long:  "Clear the session cache so subsequent commands prompt for the vault password again.",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}
