package session_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/skdas20/vaultx/session"
)

func withTempDir(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
}

func TestCacheGetRoundtrip(t *testing.T) {
	withTempDir(t)

	if err := session.Clear(); err != nil {
		t.Fatal(err)
	}

	password := []byte("hunter2")

	if err := session.Cache(password); err != nil {
		t.Fatalf("Cache: %v", err)
	}

	got, err := session.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if !bytes.Equal(got, password) {
		t.Errorf("got %q, want %q", got, password)
	}
}

func TestGet_NoCache(t *testing.T) {
	withTempDir(t)

	if err := session.Clear(); err != nil {
		t.Fatal(err)
	}

	got, err := session.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got != nil {
		t.Errorf("expected nil, got %q", got)
	}
}

func TestClear(t *testing.T) {
	withTempDir(t)

	if err := session.Cache([]byte("pw")); err != nil {
		t.Fatal(err)
	}

	if err := session.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, err := session.Get()
	if err != nil {
		t.Fatal(err)
	}

	if got != nil {
		t.Error("expected cache to be empty after Clear")
	}
}

func TestCache_ZeroPaddedHeader(t *testing.T) {
	withTempDir(t)

	if err := session.Clear(); err != nil {
		t.Fatal(err)
	}

	if err := session.Cache([]byte("pw")); err != nil {
		t.Fatal(err)
	}

	dir := os.TempDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	var found bool

	for _, e := range entries {
		if bytes.HasPrefix([]byte(e.Name()), []byte("vaultx_session_")) {
			found = true

			data, err := os.ReadFile(dir + string(os.PathSeparator) + e.Name())
			if err != nil {
				t.Fatal(err)
			}

			if len(data) < 32 {
				t.Fatalf("cache file too short: %d bytes", len(data))
			}

			for _, b := range data[:32] {
				if b != 0 {
					t.Fatalf("expected first 32 bytes to be zero padding, got %v", data[:32])
				}
			}
		}
	}

	if !found {
		t.Fatal("expected a vaultx_session_*.cache file to exist")
	}
}
