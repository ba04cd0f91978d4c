package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/skdas20/vaultx/clipboard"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/input"
	"github.com/skdas20/vaultx/session"
	"github.com/skdas20/vaultx/vault"
	"github.com/skdas20/vaultx/vaulterrors"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

const (
	// defaultConfigName is the default name of the config file,
	// created under the user's home directory.
	defaultConfigName = ".vaultx.toml"
)

// VaultOptions resolves the vault file path and opens/persists the
// vault container, caching the unlocked passphrase in the session
// cache across invocations so a user isn't re-prompted on every run.
type VaultOptions struct {
	Path string
}

var _ genericclioptions.BaseOptions = &VaultOptions{}

// NewVaultOptions creates a new, empty VaultOptions.
func NewVaultOptions() *VaultOptions {
	return &VaultOptions{}
}

// Complete pins the resolved vault path for the vaultstorage package.
func (o *VaultOptions) Complete() error {
	vaultstorage.SetPathOverride(o.Path)
	return nil
}

func (*VaultOptions) Validate() error { return nil }

// Unlock returns the vault's passphrase, preferring the cached session
// passphrase over an interactive prompt. If a cached passphrase no
// longer decrypts the vault, the stale session is cleared and the user
// is prompted once more.
func (o *VaultOptions) Unlock(io *genericclioptions.StdioOptions) (*vault.Vault, []byte, error) {
	exists, err := vaultstorage.Exists()
	if err != nil {
		return nil, nil, err
	}

	if !exists {
		return nil, nil, vaulterrors.ErrVaultFileNotFound
	}

	password, err := session.Get()
	if err != nil {
		io.Debugf("vaultx: session cache unavailable: %v\n", err)
	}

	if password != nil {
		v, err := vaultstorage.Load(password)
		if err == nil {
			return v, password, nil
		}

		io.Debugf("vaultx: cached session passphrase rejected: %v\n", err)
		_ = session.Clear()
	}

	password, err = input.PromptReadSecure(io.Out, int(io.In.Fd()), "[vaultx] Password: ")
	if err != nil {
		return nil, nil, fmt.Errorf("prompt password: %w", err)
	}

	v, err := vaultstorage.Load(password)
	if err != nil {
		return nil, nil, err
	}

	// Best-effort: remember the passphrase for sibling invocations in
	// this shell session so they don't re-prompt.
	if err := session.Cache(password); err != nil {
		io.Debugf("vaultx: session cache unavailable: %v\n", err)
	}

	return v, password, nil
}

// RootOptions holds configuration shared across every vaultx subcommand.
type RootOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions  *VaultOptions
	configOptions *ConfigOptions
}

var _ genericclioptions.CmdOptions = &RootOptions{}

func NewRootOptions(iostreams *genericclioptions.IOStreams) *RootOptions {
	stdio := &genericclioptions.StdioOptions{IOStreams: iostreams}

	return &RootOptions{
		StdioOptions:  stdio,
		vaultOptions:  NewVaultOptions(),
		configOptions: NewConfigOptions(stdio),
	}
}

func (o *RootOptions) Complete() error {
	if err := o.StdioOptions.Complete(); err != nil {
		return err
	}

	if err := o.configOptions.Complete(); err != nil {
		return err
	}

	resolved := o.configOptions.Resolved()

	var opts []clipboard.Opt
	if len(resolved.CopyCmd) > 0 {
		opts = append(opts, clipboard.WithCopyCmd(resolved.CopyCmd))
	}

	if len(resolved.PasteCmd) > 0 {
		opts = append(opts, clipboard.WithPasteCmd(resolved.PasteCmd))
	}

	if len(opts) > 0 {
		clipboard.SetDefault(clipboard.New(opts...))
	}

	if len(o.vaultOptions.Path) == 0 {
		o.vaultOptions.Path = resolved.VaultPath
	}

	return o.vaultOptions.Complete()
}

func (o *RootOptions) Validate() error {
	if err := o.StdioOptions.Validate(); err != nil {
		return err
	}

	if err := o.configOptions.Validate(); err != nil {
		return err
	}

	return o.vaultOptions.Validate()
}

func (*RootOptions) Run(context.Context) error { return nil }

// NewDefaultVaultXCommand creates the `vaultx` command with its subcommands.
func NewDefaultVaultXCommand(iostreams *genericclioptions.IOStreams, args []string) *cobra.Command {
	o := NewRootOptions(iostreams)

	cmd := &cobra.Command{
		Use:   "vaultx",
		Short: "A local, password-protected secrets manager",
		Long: `vaultx stores secrets, SSH identities, and SSH server bookmarks in a
single AES-256-GCM encrypted file, unlocked with an Argon2id-derived key.

Environment Variables:
    VAULTX_CONFIG_PATH: overrides the default config path: "~/.vaultx.toml".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return genericclioptions.ExecuteCommand(cmd.Context(), o)
		},
	}

	cmd.SetArgs(args)

	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVarP(&o.vaultOptions.Path, "file", "f", "",
		"vault file path (default: ~/.vaultx/vault.vx)")
	cmd.PersistentFlags().StringVar(&o.configOptions.cliFlags.configPath, "config", "",
		fmt.Sprintf("configuration file path (default: ~/%s)", defaultConfigName))

	cmd.AddCommand(NewCmdConfig(o.StdioOptions))
	cmd.AddCommand(NewCmdGenerate(o.StdioOptions))
	cmd.AddCommand(NewCmdVersion(o.StdioOptions))
	cmd.AddCommand(NewCmdCreate(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdLogin(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdLogout(o.StdioOptions))
	cmd.AddCommand(NewCmdInit(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdAdd(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdGet(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdRemove(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdSsh(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdAudit(o.StdioOptions, o.vaultOptions, o.configOptions))

	return cmd
}

// errVaultOpen wraps vault-open failures, passing the missing-file
// sentinel through untouched so clierror can render its "run create
// first" hint.
func errVaultOpen(err error) error {
	if errors.Is(err, vaulterrors.ErrVaultFileNotFound) {
		return err
	}

	return fmt.Errorf("open vault: %w", err)
}
