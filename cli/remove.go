package cli

import (
	"context"
	"fmt"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

// RemoveOptions have the data required to perform the remove operation.
// When name is empty, the whole project (and every secret it contains)
// is removed; otherwise only that one secret is removed.
type RemoveOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions

	project string
	name    string
}

var _ genericclioptions.CmdOptions = &RemoveOptions{}

// NewRemoveOptions initializes the options struct.
func NewRemoveOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *RemoveOptions {
	return &RemoveOptions{
		StdioOptions: stdio,
		vaultOptions: vaultOptions,
	}
}

func (o *RemoveOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (*RemoveOptions) Validate() error { return nil }

func (o *RemoveOptions) Run(context.Context) error {
	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	if len(o.name) == 0 {
		if err := v.RemoveProject(o.project); err != nil {
			return err
		}

		o.Infof("Project %q removed\n", o.project)
	} else {
		if err := v.RemoveSecret(o.project, o.name); err != nil {
			return err
		}

		o.Infof("Secret %q removed from project %q\n", o.name, o.project)
	}

	if err := vaultstorage.Save(v, password); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	return nil
}

// NewCmdRemove creates the rm cobra command.
func NewCmdRemove(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := NewRemoveOptions(stdio, vaultOptions)

	cmd := &cobra.Command{
		Use:     "rm <project> [name]",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a project or a single secret within it",
		Args:    cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			o.project = args[0]
			if len(args) > 1 {
				o.name = args[1]
			}

			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	return cmd
}
