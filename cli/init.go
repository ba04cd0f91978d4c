package cli

import (
	"context"
	"fmt"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

// InitOptions have the data required to perform the init operation.
type InitOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions

	project string
}

var _ genericclioptions.CmdOptions = &InitOptions{}

// NewInitOptions initializes the options struct.
func NewInitOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *InitOptions {
	return &InitOptions{
		StdioOptions: stdio,
		vaultOptions: vaultOptions,
	}
}

func (o *InitOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (*InitOptions) Validate() error { return nil }

func (o *InitOptions) Run(context.Context) error {
	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	if err := v.InitProject(o.project); err != nil {
		return err
	}

	if err := vaultstorage.Save(v, password); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	o.Infof("Project %q created\n", o.project)

	return nil
}

// NewCmdInit creates the init cobra command.
func NewCmdInit(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := NewInitOptions(stdio, vaultOptions)

	return &cobra.Command{
		Use:   "init <project>",
		Short: "Create a new, empty project in the vault",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.project = args[0]
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}
