package cli

import (
	"context"
	"fmt"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/clipboard"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

// GetOptions have the data required to perform the get-secret operation.
type GetOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions

	project string
	name    string
	copy    bool
}

var _ genericclioptions.CmdOptions = &GetOptions{}

// NewGetOptions initializes the options struct.
func NewGetOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *GetOptions {
	return &GetOptions{
		StdioOptions: stdio,
		vaultOptions: vaultOptions,
	}
}

func (o *GetOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (*GetOptions) Validate() error { return nil }

func (o *GetOptions) Run(context.Context) error {
	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	key, err := vaultstorage.DeriveKey(password)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	value, err := v.GetSecret(o.project, o.name, key)
	if err != nil {
		return err
	}

	defer clear(value)

	if o.copy {
		o.Debugf("Copying secret to clipboard\n")
		return clipboard.Copy(string(value))
	}

	o.Printf("%s\n", value)

	return nil
}

// NewCmdGet creates the get cobra command.
func NewCmdGet(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := NewGetOptions(stdio, vaultOptions)

	cmd := &cobra.Command{
		Use:   "get <project> <name>",
		Short: "Decrypt and print a secret",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			o.project, o.name = args[0], args[1]
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().BoolVarP(&o.copy, "copy", "c", false, "copy the secret to the clipboard instead of printing it")

	return cmd
}
