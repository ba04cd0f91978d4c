package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/input"
	"github.com/skdas20/vaultx/randstring"
	"github.com/skdas20/vaultx/ttl"
	"github.com/skdas20/vaultx/vaulterrors"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

// AddOptions have the data required to perform the add-secret operation.
type AddOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions

	project  string
	name     string
	ttlRaw   string
	generate bool
}

var _ genericclioptions.CmdOptions = &AddOptions{}

// NewAddOptions initializes the options struct.
func NewAddOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *AddOptions {
	return &AddOptions{
		StdioOptions: stdio,
		vaultOptions: vaultOptions,
	}
}

func (o *AddOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (*AddOptions) Validate() error { return nil }

func (o *AddOptions) Run(context.Context) error {
	var ttlSeconds *uint64

	if len(o.ttlRaw) > 0 {
		seconds, err := ttl.ParseTTL(o.ttlRaw)
		if err != nil {
			return fmt.Errorf("parse --ttl: %w", err)
		}

		ttlSeconds = &seconds
	}

	value, err := o.readValue()
	if err != nil {
		return err
	}

	defer clear(value)

	if len(value) == 0 {
		return vaulterrors.ErrEmptySecret
	}

	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	key, err := vaultstorage.DeriveKey(password)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	if err := v.AddSecret(o.project, o.name, value, key, ttlSeconds); err != nil {
		return err
	}

	if err := vaultstorage.Save(v, password); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	o.Infof("Secret %q added to project %q\n", o.name, o.project)

	return nil
}

// readValue returns the secret value to store: generated, piped via
// stdin, or prompted for interactively, in that order of precedence.
func (o *AddOptions) readValue() ([]byte, error) {
	if o.generate {
		s, err := randstring.NewWithPolicy(defaultPasswordPolicy)
		if err != nil {
			return nil, err
		}

		return []byte(s), nil
	}

	if o.NonInteractive {
		return io.ReadAll(o.In)
	}

	return input.PromptReadSecure(o.Out, int(o.In.Fd()), "Enter secret value for %q: ", o.name)
}

// NewCmdAdd creates the add cobra command.
func NewCmdAdd(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := NewAddOptions(stdio, vaultOptions)

	cmd := &cobra.Command{
		Use:   "add <project> <name>",
		Short: "Add or replace a secret in a project",
		Long: `Add a new secret to an existing project, encrypting it under the vault's key.

If a secret with the same name already exists it is silently replaced.
The value is read from a piped stdin, generated, or prompted for interactively.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			o.project, o.name = args[0], args[1]
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.ttlRaw, "ttl", "", "expire the secret after the given duration (e.g. 30m, 6h, 7d, 2w)")
	cmd.Flags().BoolVar(&o.generate, "generate", false, "generate a random value instead of reading one")

	return cmd
}
