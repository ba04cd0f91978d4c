package cli

import (
	"context"
	"fmt"

	"github.com/skdas20/vaultx/audit"
	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/ttl"

	"github.com/spf13/cobra"
)

// AuditOptions have the data required to run the audit heuristics and
// render the resulting report. The heuristics themselves live in
// package audit; this command only prints what they return.
type AuditOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions  *VaultOptions
	configOptions *ConfigOptions
}

var _ genericclioptions.CmdOptions = &AuditOptions{}

// NewAuditOptions initializes the options struct.
func NewAuditOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions, configOptions *ConfigOptions) *AuditOptions {
	return &AuditOptions{
		StdioOptions:  stdio,
		vaultOptions:  vaultOptions,
		configOptions: configOptions,
	}
}

func (o *AuditOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (*AuditOptions) Validate() error { return nil }

func (o *AuditOptions) Run(context.Context) error {
	v, _, err := o.vaultOptions.Unlock(o.StdioOptions)
	if err != nil {
		return errVaultOpen(err)
	}

	report := audit.RunWithThreshold(v, ttl.CurrentTimestamp(), o.configOptions.Resolved().LongLivedDays)

	o.render(report)

	return nil
}

func (o *AuditOptions) render(report audit.Report) {
	o.Printf("vaultx audit report\n")
	o.Printf("  total secrets:    %d\n", report.TotalSecrets)
	o.Printf("  expired:          %d\n", report.ExpiredCount)
	o.Printf("  long-lived:       %d\n", report.LongLivedCount)
	o.Printf("  high risk:        %d\n", report.HighRiskCount)

	for _, p := range report.Projects {
		o.Printf("\nproject %q: %d secrets, %d expired, %d long-lived, %d high-risk\n",
			p.Name, p.TotalSecrets, p.Expired, p.LongLived, p.HighRisk)
	}

	if len(report.Findings) == 0 {
		return
	}

	o.Printf("\nfindings:\n")

	for _, f := range report.Findings {
		label := f.Name
		if len(f.Project) > 0 {
			label = fmt.Sprintf("%s/%s", f.Project, f.Name)
		}

		switch f.Flag {
		case audit.FlagLongLived:
			o.Printf("  [%s] %s (%d days old)\n", f.Flag, label, f.AgeDays)
		default:
			o.Printf("  [%s] %s\n", f.Flag, label)
		}
	}
}

// NewCmdAudit creates the audit cobra command.
func NewCmdAudit(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions, configOptions *ConfigOptions) *cobra.Command {
	o := NewAuditOptions(stdio, vaultOptions, configOptions)

	return &cobra.Command{
		Use:   "audit",
		Short: "Scan the vault for expired, long-lived, and high-risk secrets",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}
