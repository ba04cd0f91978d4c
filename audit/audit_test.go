package audit_test

import (
	"testing"

	"github.com/skdas20/vaultx/audit"
	"github.com/skdas20/vaultx/vault"
	"github.com/skdas20/vaultx/vaultcrypto"
)

func u64(v uint64) *uint64 { return &v }

func TestRun_FlagsExpired(t *testing.T) {
	v := vault.New()
	if err := v.InitProject("p"); err != nil {
		t.Fatal(err)
	}

	var key [vaultcrypto.KeySize]byte
	if err := v.AddSecret("p", "s1", []byte("v"), key, nil); err != nil {
		t.Fatal(err)
	}

	v.Projects["p"].Secrets["s1"].ExpiresAt = u64(100)

	report := audit.Run(v, 200)

	if report.ExpiredCount != 1 {
		t.Fatalf("ExpiredCount = %d, want 1", report.ExpiredCount)
	}

	if len(report.Findings) != 1 || report.Findings[0].Flag != audit.FlagExpired {
		t.Fatalf("Findings = %+v, want one EXPIRED finding", report.Findings)
	}
}

func TestRun_FlagsLongLived(t *testing.T) {
	v := vault.New()
	if err := v.InitProject("p"); err != nil {
		t.Fatal(err)
	}

	var key [vaultcrypto.KeySize]byte
	if err := v.AddSecret("p", "s1", []byte("v"), key, nil); err != nil {
		t.Fatal(err)
	}

	now := uint64(200 * 86400)
	v.Projects["p"].Secrets["s1"].CreatedAt = 0

	report := audit.Run(v, now)

	if report.LongLivedCount != 1 {
		t.Fatalf("LongLivedCount = %d, want 1", report.LongLivedCount)
	}
}

func TestRun_HighRiskRequiresNoTTL(t *testing.T) {
	v := vault.New()
	if err := v.InitProject("p"); err != nil {
		t.Fatal(err)
	}

	var key [vaultcrypto.KeySize]byte

	if err := v.AddSecret("p", "DB_PASSWORD", []byte("v"), key, nil); err != nil {
		t.Fatal(err)
	}

	ttl := uint64(3600)
	if err := v.AddSecret("p", "API_TOKEN_WITH_TTL", []byte("v"), key, &ttl); err != nil {
		t.Fatal(err)
	}

	if err := v.AddSecret("p", "harmless_name", []byte("v"), key, nil); err != nil {
		t.Fatal(err)
	}

	report := audit.Run(v, 0)

	if report.HighRiskCount != 1 {
		t.Fatalf("HighRiskCount = %d, want 1 (got findings: %+v)", report.HighRiskCount, report.Findings)
	}

	var flaggedName string

	for _, f := range report.Findings {
		if f.Flag == audit.FlagHighRisk {
			flaggedName = f.Name
		}
	}

	if flaggedName != "DB_PASSWORD" {
		t.Errorf("flagged name = %q, want DB_PASSWORD", flaggedName)
	}
}

func TestRun_ProjectSummaryTotals(t *testing.T) {
	v := vault.New()
	if err := v.InitProject("p"); err != nil {
		t.Fatal(err)
	}

	var key [vaultcrypto.KeySize]byte
	if err := v.AddSecret("p", "a", []byte("v"), key, nil); err != nil {
		t.Fatal(err)
	}

	if err := v.AddSecret("p", "b", []byte("v"), key, nil); err != nil {
		t.Fatal(err)
	}

	report := audit.Run(v, 0)

	if len(report.Projects) != 1 {
		t.Fatalf("Projects = %+v, want 1 entry", report.Projects)
	}

	if report.Projects[0].TotalSecrets != 2 {
		t.Errorf("TotalSecrets = %d, want 2", report.Projects[0].TotalSecrets)
	}

	if report.TotalSecrets != 2 {
		t.Errorf("report.TotalSecrets = %d, want 2", report.TotalSecrets)
	}
}

func TestRun_SshIdentityLongLived(t *testing.T) {
	v := vault.New()

	var key [vaultcrypto.KeySize]byte
	seed := make([]byte, 32)

	if err := v.AddSshIdentity("work", "ssh-ed25519 AAAA c", seed, key); err != nil {
		t.Fatal(err)
	}

	v.SshIdentities["work"].CreatedAt = 0

	now := uint64(200 * 86400)

	report := audit.Run(v, now)

	var found bool

	for _, f := range report.Findings {
		if f.Name == "work" && f.Flag == audit.FlagLongLived {
			found = true
		}
	}

	if !found {
		t.Errorf("expected LONG_LIVED finding for ssh identity, got %+v", report.Findings)
	}
}

func TestRun_EmptyVault(t *testing.T) {
	v := vault.New()

	report := audit.Run(v, 0)

	if report.TotalSecrets != 0 || len(report.Findings) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}
