// Package audit computes security-heuristic reports over a vault. It is
// a pure function of a vault snapshot and a timestamp; rendering the
// report to a terminal is a concern of the cli package.
package audit

import (
	"sort"
	"strings"

	"github.com/skdas20/vaultx/vault"
)

const (
	longLivedDays = 90
	secondsPerDay = 86400
)

// highRiskPatterns are substrings that, when found in a lowercased
// secret name with no TTL set, mark it HIGH_RISK.
var highRiskPatterns = []string{
	"password", "passwd", "secret", "token",
	"api_key", "apikey", "private_key", "privatekey", "credential",
}

// Flag identifies why a finding was raised.
type Flag string

const (
	FlagExpired   Flag = "EXPIRED"
	FlagLongLived Flag = "LONG_LIVED"
	FlagHighRisk  Flag = "HIGH_RISK"
)

// Finding is a single flagged secret or identity.
type Finding struct {
	Project string // empty for SSH identity findings
	Name    string
	Flag    Flag
	AgeDays uint64 // populated for LONG_LIVED findings
}

// ProjectSummary totals flags within a single project.
type ProjectSummary struct {
	Name         string
	TotalSecrets int
	Expired      int
	LongLived    int
	HighRisk     int
}

// Report is the full result of auditing a vault.
type Report struct {
	Projects       []ProjectSummary
	Findings       []Finding
	TotalSecrets   int
	ExpiredCount   int
	LongLivedCount int
	HighRiskCount  int
}

// Run evaluates every secret and SSH identity in v against the audit
// heuristics as of now (seconds since the Unix epoch), using the
// default 90-day long-lived threshold.
func Run(v *vault.Vault, now uint64) Report {
	return RunWithThreshold(v, now, longLivedDays)
}

// RunWithThreshold is [Run] with a caller-supplied long-lived threshold,
// in days, in place of the default 90.
func RunWithThreshold(v *vault.Vault, now uint64, longLivedDaysOverride int) Report {
	var report Report

	window := uint64(longLivedDaysOverride) * secondsPerDay
	threshold := saturatingSub(now, window)

	projectNames := make([]string, 0, len(v.Projects))
	for name := range v.Projects {
		projectNames = append(projectNames, name)
	}

	sort.Strings(projectNames)

	for _, projectName := range projectNames {
		project := v.Projects[projectName]
		summary := ProjectSummary{Name: projectName, TotalSecrets: len(project.Secrets)}

		secretNames := make([]string, 0, len(project.Secrets))
		for name := range project.Secrets {
			secretNames = append(secretNames, name)
		}

		sort.Strings(secretNames)

		for _, secretName := range secretNames {
			secret := project.Secrets[secretName]
			report.TotalSecrets++

			if secret.ExpiresAt != nil && *secret.ExpiresAt <= now {
				summary.Expired++
				report.ExpiredCount++
				report.Findings = append(report.Findings, Finding{
					Project: projectName, Name: secretName, Flag: FlagExpired,
				})
			}

			if secret.CreatedAt < threshold {
				summary.LongLived++
				report.LongLivedCount++
				report.Findings = append(report.Findings, Finding{
					Project: projectName, Name: secretName, Flag: FlagLongLived,
					AgeDays: (now - secret.CreatedAt) / secondsPerDay,
				})
			}

			if secret.ExpiresAt == nil && matchesHighRiskPattern(secretName) {
				summary.HighRisk++
				report.HighRiskCount++
				report.Findings = append(report.Findings, Finding{
					Project: projectName, Name: secretName, Flag: FlagHighRisk,
				})
			}
		}

		report.Projects = append(report.Projects, summary)
	}

	identityNames := make([]string, 0, len(v.SshIdentities))
	for name := range v.SshIdentities {
		identityNames = append(identityNames, name)
	}

	sort.Strings(identityNames)

	for _, name := range identityNames {
		identity := v.SshIdentities[name]
		if identity.CreatedAt < threshold {
			report.Findings = append(report.Findings, Finding{
				Name: name, Flag: FlagLongLived,
				AgeDays: (now - identity.CreatedAt) / secondsPerDay,
			})
		}
	}

	return report
}

func matchesHighRiskPattern(name string) bool {
	lower := strings.ToLower(name)

	for _, pattern := range highRiskPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}

// saturatingSub returns a-b, clamped to 0 instead of wrapping when b > a.
func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}

	return a - b
}
