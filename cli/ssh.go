package cli

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/sshkey"
	"github.com/skdas20/vaultx/vaultstorage"

	"github.com/spf13/cobra"
)

const defaultSshComment = "vaultx-generated"

// NewCmdSsh creates the "ssh" command tree: identity generation, server
// shorthand bindings, private-key export, and authorized_keys setup
// command rendering.
func NewCmdSsh(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Manage SSH identities and server bookmarks (subcommands available)",
	}

	cmd.AddCommand(newCmdSshGenerate(stdio, vaultOptions))
	cmd.AddCommand(newCmdSshExport(stdio, vaultOptions))
	cmd.AddCommand(newCmdSshSetupCommands(stdio, vaultOptions))
	cmd.AddCommand(newCmdSshServer(stdio, vaultOptions))

	return cmd
}

// sshIdentityOptions is the common shape shared by every ssh subcommand
// that needs an unlocked vault and a derived key.
type sshIdentityOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions

	name string
}

func (o *sshIdentityOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (*sshIdentityOptions) Validate() error { return nil }

// --- ssh generate ---

type sshGenerateOptions struct {
	sshIdentityOptions

	comment string
}

var _ genericclioptions.CmdOptions = &sshGenerateOptions{}

func (o *sshGenerateOptions) Run(context.Context) error {
	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	key, err := vaultstorage.DeriveKey(password)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	comment := o.comment
	if len(comment) == 0 {
		comment = defaultSshComment
	}

	kp, err := sshkey.Generate(comment)
	if err != nil {
		return err
	}

	defer clear(kp.Seed)

	if err := v.AddSshIdentity(o.name, kp.PublicKeyLine, kp.Seed, key); err != nil {
		return err
	}

	if err := vaultstorage.Save(v, password); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	o.Infof("SSH identity %q created\n", o.name)
	o.Printf("%s\n", kp.PublicKeyLine)

	return nil
}

func newCmdSshGenerate(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := &sshGenerateOptions{sshIdentityOptions: sshIdentityOptions{StdioOptions: stdio, vaultOptions: vaultOptions}}

	cmd := &cobra.Command{
		Use:   "generate <name>",
		Short: "Generate a new ed25519 SSH identity and store it in the vault",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.name = args[0]
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.comment, "comment", "", "public key comment (default: vaultx-generated)")

	return cmd
}

// --- ssh export ---

type sshExportOptions struct {
	sshIdentityOptions
}

var _ genericclioptions.CmdOptions = &sshExportOptions{}

func (o *sshExportOptions) Run(context.Context) error {
	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	key, err := vaultstorage.DeriveKey(password)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	publicKeyLine, seed, err := v.GetSshIdentity(o.name, key)
	if err != nil {
		return err
	}

	defer clear(seed)

	signingKey, err := sshkey.ReconstructSigningKey(seed)
	if err != nil {
		return err
	}

	pub, ok := signingKey.Public().(ed25519.PublicKey)
	if !ok {
		return sshkey.ErrInvalidKeyFormat
	}

	pem, err := sshkey.FormatPrivateKeyPEM(seed, pub)
	if err != nil {
		return err
	}

	o.Printf("%s\n", publicKeyLine)
	o.Printf("%s", pem)

	return nil
}

func newCmdSshExport(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := &sshExportOptions{sshIdentityOptions{StdioOptions: stdio, vaultOptions: vaultOptions}}

	return &cobra.Command{
		Use:   "export <name>",
		Short: "Print an identity's public key and unencrypted OpenSSH private key",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.name = args[0]
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}

// --- ssh setup-commands ---

type sshSetupCommandsOptions struct {
	sshIdentityOptions
}

var _ genericclioptions.CmdOptions = &sshSetupCommandsOptions{}

func (o *sshSetupCommandsOptions) Run(context.Context) error {
	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	key, err := vaultstorage.DeriveKey(password)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	publicKeyLine, _, err := v.GetSshIdentity(o.name, key)
	if err != nil {
		return err
	}

	o.Printf("%s\n", sshkey.SetupCommands(publicKeyLine))

	return nil
}

func newCmdSshSetupCommands(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := &sshSetupCommandsOptions{sshIdentityOptions{StdioOptions: stdio, vaultOptions: vaultOptions}}

	return &cobra.Command{
		Use:   "setup-commands <name>",
		Short: "Print the shell commands to authorize an identity on a remote host",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.name = args[0]
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}

// --- ssh server add ---

type sshServerOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions

	name     string
	username string
	ip       string
	identity string
}

var _ genericclioptions.CmdOptions = &sshServerOptions{}

func (o *sshServerOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (o *sshServerOptions) Validate() error {
	if len(o.ip) == 0 {
		return errors.New("ssh server: --ip is required")
	}

	for _, r := range o.ip {
		if !isHostAddressRune(r) {
			return fmt.Errorf("ssh server: invalid character %q in --ip", r)
		}
	}

	if len(o.identity) == 0 {
		return errors.New("ssh server: --identity is required")
	}

	return nil
}

// isHostAddressRune reports whether r may appear in an IP address or
// hostname: alphanumerics, dots, colons (IPv6), and hyphens.
func isHostAddressRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == '.' || r == ':' || r == '-':
		return true
	default:
		return false
	}
}

func (o *sshServerOptions) Run(context.Context) error {
	v, password, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	if err := v.AddSshServer(o.name, o.username, o.ip, o.identity); err != nil {
		return err
	}

	if err := vaultstorage.Save(v, password); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}

	o.Infof("SSH server %q added\n", o.name)

	return nil
}

func newCmdSshServer(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Manage SSH server shorthand bindings (subcommands available)",
	}

	cmd.AddCommand(newCmdSshServerAdd(stdio, vaultOptions))

	return cmd
}

func newCmdSshServerAdd(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := &sshServerOptions{StdioOptions: stdio, vaultOptions: vaultOptions}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Bind a server shorthand to an existing SSH identity",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o.name = args[0]
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.username, "user", "", "remote username")
	cmd.Flags().StringVar(&o.ip, "ip", "", "remote IP address or hostname")
	cmd.Flags().StringVar(&o.identity, "identity", "", "name of a stored SSH identity")

	return cmd
}
