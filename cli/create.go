package cli

import (
	"context"
	"fmt"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/input"
	"github.com/skdas20/vaultx/vaulterrors"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

const (
	masterKeyMinLen = 8
)

// CreateOptions have the data required to perform the create operation.
type CreateOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions
}

var _ genericclioptions.CmdOptions = &CreateOptions{}

// NewCreateOptions initializes the options struct.
func NewCreateOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *CreateOptions {
	return &CreateOptions{
		StdioOptions: stdio,
		vaultOptions: vaultOptions,
	}
}

func (o *CreateOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (o *CreateOptions) Validate() error {
	exists, err := vaultstorage.Exists()
	if err != nil {
		return err
	}

	if exists {
		return vaulterrors.ErrVaultFileExists
	}

	if o.NonInteractive {
		return vaulterrors.ErrNonInteractiveUnsupported
	}

	return nil
}

func (o *CreateOptions) Run(context.Context) error {
	mk, err := input.PromptNewPassword(o.Out, int(o.In.Fd()), masterKeyMinLen)
	if err != nil {
		return fmt.Errorf("read new master key: %w", err)
	}

	if _, err := vaultstorage.CreateVault(mk); err != nil {
		return fmt.Errorf("create vault: %w", err)
	}

	path, err := vaultstorage.VaultPath()
	if err != nil {
		return err
	}

	o.Infof("New vault successfully created at %q\n", path)

	return nil
}

// NewCmdCreate creates the create cobra command.
func NewCmdCreate(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := NewCreateOptions(stdio, vaultOptions)

	return &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Initialize a new vault",
		Long: `Create a new vault at the configured path.

If no --file path is provided, uses the default path (~/.vaultx/vault.vx).`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}
