package cli

import (
	"context"
	"fmt"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/input"
	"github.com/skdas20/vaultx/session"
	"github.com/skdas20/vaultx/vaulterrors"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

// LoginOptions holds data required to run the command.
type LoginOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions
}

var _ genericclioptions.CmdOptions = &LoginOptions{}

// NewLoginOptions initializes the options struct.
func NewLoginOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *LoginOptions {
	return &LoginOptions{
		StdioOptions: stdio,
		vaultOptions: vaultOptions,
	}
}

func (o *LoginOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (o *LoginOptions) Validate() error {
	if o.NonInteractive {
		return vaulterrors.ErrNonInteractiveUnsupported
	}

	return nil
}

func (o *LoginOptions) Run(context.Context) error {
	exists, err := vaultstorage.Exists()
	if err != nil {
		return err
	}

	if !exists {
		return vaulterrors.ErrVaultFileNotFound
	}

	password, err := input.PromptReadSecure(o.Out, int(o.In.Fd()), "Password for vault: ")
	if err != nil {
		return fmt.Errorf("prompt password: %w", err)
	}

	if len(password) == 0 {
		return vaulterrors.ErrEmptyPassword
	}

	if _, err := vaultstorage.Load(password); err != nil {
		return err
	}

	if err := session.Cache(password); err != nil {
		o.Debugf("vaultx: session cache unavailable: %v\n", err)
	}

	o.Infof("Login successful\n")

	return nil
}

// NewCmdLogin creates the login cobra command.
func NewCmdLogin(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := NewLoginOptions(stdio, vaultOptions)

	return &cobra.Command{
		Use:   "login",
		Short: "Unlock the vault and cache the passphrase for this session",
		Long: `Authenticate against the vault and cache the passphrase so that
subsequent commands run in the same session don't re-prompt for it.`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}
