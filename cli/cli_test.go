package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skdas20/vaultx/cli"
	"github.com/skdas20/vaultx/clierror"
	"github.com/skdas20/vaultx/genericclioptions"
	"github.com/skdas20/vaultx/input"
	"github.com/skdas20/vaultx/session"
)

const testPassword = "correct horse battery staple"

func newTTYFileInfo(name string, size int) os.FileInfo {
	return genericclioptions.NewMockFileInfo(name, int64(size), os.ModeCharDevice, false, time.Now())
}

func newNonTTYFileInfo(name string, size int) os.FileInfo {
	return genericclioptions.NewMockFileInfo(name, int64(size), 0, false, time.Now())
}

// runCLI executes args against a fresh vaultx command tree with stdinData
// fed through a mock file descriptor whose TTY-ness is controlled by tty.
func runCLI(t *testing.T, stdinData string, tty bool, args ...string) (out, errOut string, err error) {
	t.Helper()

	fi := newNonTTYFileInfo
	if tty {
		fi = newTTYFileInfo
	}

	stdin := genericclioptions.NewTestFdReader(bytes.NewBufferString(stdinData), 0, fi("stdin", len(stdinData)))
	ioStreams, _, outBuf, errBuf := genericclioptions.NewTestIOStreams(stdin)

	clierror.SetErrorHandler(clierror.PrintErrHandler)
	clierror.SetErrWriter(ioStreams.ErrOut)

	t.Cleanup(func() {
		clierror.ResetErrorHandler()
		clierror.ResetErrWriter()
	})

	cmd := cli.NewDefaultVaultXCommand(ioStreams, args)
	err = cmd.Execute()

	return outBuf.String(), errBuf.String(), err
}

// withPassword makes every secure-prompt read return password, and
// restores the real terminal reader on test cleanup.
func withPassword(t *testing.T, password string) {
	t.Helper()

	input.SetDefaultReadPassword(func(int) ([]byte, error) {
		return []byte(password), nil
	})

	t.Cleanup(input.ResetDefaultReadPassword)
}

func testVaultPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "vault.vx")
}

func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// TestCLI_FullLifecycle drives create -> init -> add -> get -> audit ->
// rm through the real cobra command tree, exercising every core package
// the way an interactive operator would.
func TestCLI_FullLifecycle(t *testing.T) {
	t.Cleanup(func() { _ = session.Clear() })

	vaultPath := testVaultPath(t)
	configPath := emptyConfig(t)

	withPassword(t, testPassword)

	if _, errOut, err := runCLI(t, "", true, "create", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("create failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, err := runCLI(t, "", true, "init", "web", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("init failed: %v\nstderr: %s", err, errOut)
	}

	// Re-running init on the same project name must fail. Command-level
	// failures are reported through clierror onto stderr, not through
	// cmd.Execute()'s return value (Run, not RunE, swallows it).
	if _, errOut, _ := runCLI(t, "", true, "init", "web", "--file", vaultPath, "--config", configPath); errOut == "" {
		t.Fatal("expected second init of the same project to report an error")
	}

	// tty=false so StdioOptions.Complete marks this non-interactive and
	// readValue() reads the secret straight off stdin (verbatim, with no
	// trimming), rather than through the (separately mocked) password
	// prompt.
	if _, errOut, err := runCLI(t, "postgres://x", false, "add", "web", "DB_URL", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("add failed: %v\nstderr: %s", err, errOut)
	}

	out, errOut, err := runCLI(t, "", true, "get", "web", "DB_URL", "--file", vaultPath, "--config", configPath)
	if err != nil || errOut != "" {
		t.Fatalf("get failed: %v\nstderr: %s", err, errOut)
	}

	if got, want := out, "postgres://x\n"; got != want {
		t.Fatalf("get output = %q, want %q", got, want)
	}

	// Exercise the --ttl parse path end to end; audit below sees the
	// TTL'd secret alongside the plain one.
	if _, errOut, err := runCLI(t, "", true, "add", "web", "TEMP", "--ttl", "1m", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("add with ttl failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, err := runCLI(t, "", true, "audit", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("audit failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, err := runCLI(t, "", true, "rm", "web", "DB_URL", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("rm secret failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, _ := runCLI(t, "", true, "get", "web", "DB_URL", "--file", vaultPath, "--config", configPath); errOut == "" {
		t.Fatal("expected get of a removed secret to report an error")
	}

	if _, errOut, err := runCLI(t, "", true, "rm", "web", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("rm project failed: %v\nstderr: %s", err, errOut)
	}
}

// TestCLI_WrongPassword confirms that reopening a vault with the wrong
// passphrase surfaces the indistinguishable authentication-failure path
// all the way up to the CLI.
func TestCLI_WrongPassword(t *testing.T) {
	t.Cleanup(func() { _ = session.Clear() })

	vaultPath := testVaultPath(t)
	configPath := emptyConfig(t)

	withPassword(t, testPassword)

	if _, errOut, err := runCLI(t, "", true, "create", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("create failed: %v\nstderr: %s", err, errOut)
	}

	withPassword(t, "totally the wrong password")

	if _, errOut, _ := runCLI(t, "", true, "init", "web", "--file", vaultPath, "--config", configPath); errOut == "" {
		t.Fatal("expected init with the wrong password to report an error")
	}
}

// TestCLI_LoginCachesPassword confirms login populates the session
// cache so a subsequent command does not re-prompt.
func TestCLI_LoginCachesPassword(t *testing.T) {
	t.Cleanup(func() { _ = session.Clear() })

	vaultPath := testVaultPath(t)
	configPath := emptyConfig(t)

	withPassword(t, testPassword)

	if _, errOut, err := runCLI(t, "", true, "create", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("create failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, err := runCLI(t, "", true, "login", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("login failed: %v\nstderr: %s", err, errOut)
	}

	// Swap in a reader that errors if called: init must succeed purely
	// from the cached session passphrase, without prompting again.
	input.SetDefaultReadPassword(func(int) ([]byte, error) {
		t.Fatal("password prompt invoked despite a cached session")
		return nil, nil
	})

	if _, errOut, err := runCLI(t, "", true, "init", "web", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("init with cached session failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, err := runCLI(t, "", true, "logout", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("logout failed: %v\nstderr: %s", err, errOut)
	}
}

// TestCLI_SshIdentityLifecycle drives identity generation, export, and
// setup-commands rendering through the CLI.
func TestCLI_SshIdentityLifecycle(t *testing.T) {
	t.Cleanup(func() { _ = session.Clear() })

	vaultPath := testVaultPath(t)
	configPath := emptyConfig(t)

	withPassword(t, testPassword)

	if _, errOut, err := runCLI(t, "", true, "create", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("create failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, err := runCLI(t, "", true, "ssh", "generate", "deploy-key", "--file", vaultPath, "--config", configPath); err != nil || errOut != "" {
		t.Fatalf("ssh generate failed: %v\nstderr: %s", err, errOut)
	}

	out, errOut, err := runCLI(t, "", true, "ssh", "export", "deploy-key", "--file", vaultPath, "--config", configPath)
	if err != nil || errOut != "" {
		t.Fatalf("ssh export failed: %v\nstderr: %s", err, errOut)
	}

	if got := out; len(got) == 0 {
		t.Fatal("ssh export produced no output")
	}

	out, errOut, err = runCLI(t, "", true, "ssh", "setup-commands", "deploy-key", "--file", vaultPath, "--config", configPath)
	if err != nil || errOut != "" {
		t.Fatalf("ssh setup-commands failed: %v\nstderr: %s", err, errOut)
	}

	if got := out; len(got) == 0 {
		t.Fatal("ssh setup-commands produced no output")
	}

	if _, errOut, err := runCLI(t, "", true,
		"ssh", "server", "add", "prod-1",
		"--user", "deploy", "--ip", "10.0.0.5", "--identity", "deploy-key",
		"--file", vaultPath, "--config", configPath,
	); err != nil || errOut != "" {
		t.Fatalf("ssh server add failed: %v\nstderr: %s", err, errOut)
	}

	if _, errOut, _ := runCLI(t, "", true,
		"ssh", "server", "add", "prod-2",
		"--user", "deploy", "--ip", "10.0.0.6", "--identity", "no-such-identity",
		"--file", vaultPath, "--config", configPath,
	); errOut == "" {
		t.Fatal("expected ssh server add with an unknown identity to report an error")
	}
}

// TestCLI_GenerateCommand exercises the standalone password generator.
func TestCLI_GenerateCommand(t *testing.T) {
	out, errOut, err := runCLI(t, "", true, "generate", "--min-length", "20")
	if err != nil || errOut != "" {
		t.Fatalf("generate failed: %v\nstderr: %s", err, errOut)
	}

	if got := len(bytes.TrimSpace([]byte(out))); got < 20 {
		t.Fatalf("generate produced %d chars, want at least 20", got)
	}
}
