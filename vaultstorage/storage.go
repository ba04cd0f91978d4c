// Package vaultstorage locates, loads, and atomically persists the
// single-file vault container on disk. It holds no cryptographic logic
// of its own; it only knows the path conventions and the
// write-temp-then-rename discipline, and delegates serialization to
// package vault.
package vaultstorage

import (
	"os"
	"path/filepath"

	"github.com/skdas20/vaultx/vault"
	"github.com/skdas20/vaultx/vaultcrypto"
)

const (
	vaultDirName  = ".vaultx"
	vaultFileName = "vault.vx"
)

// pathOverride, when non-empty, is returned by VaultPath in place of the
// default $HOME/.vaultx/vault.vx location. Set once at startup from a
// --file flag via SetPathOverride.
var pathOverride string

// SetPathOverride pins the vault file path used by VaultPath, Exists,
// Load, Save, and ExtractSalt for the remainder of the process. An empty
// path restores the default $HOME/.vaultx/vault.vx location.
func SetPathOverride(path string) {
	pathOverride = path
}

// VaultDir returns the directory the vault file lives in:
// $HOME/.vaultx. It does not create the directory.
func VaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrHomeUnresolved
	}

	return filepath.Join(home, vaultDirName), nil
}

// VaultPath returns the path to the vault container: $HOME/.vaultx/vault.vx,
// or the path set via SetPathOverride if one is active.
func VaultPath() (string, error) {
	if len(pathOverride) > 0 {
		return pathOverride, nil
	}

	dir, err := VaultDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, vaultFileName), nil
}

// Exists reports whether a vault file is already present.
func Exists() (bool, error) {
	path, err := VaultPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// ExtractSalt reads the existing vault's salt without decrypting it, so
// a resave can reuse it without rederiving the key twice.
func ExtractSalt() ([vaultcrypto.SaltSize]byte, error) {
	var salt [vaultcrypto.SaltSize]byte

	path, err := VaultPath()
	if err != nil {
		return salt, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return salt, err
	}

	return vault.ExtractSalt(data)
}

// DeriveKey reads the existing vault file's salt and derives the
// encryption key a loaded *vault.Vault's secrets and identities are
// encrypted under for password. Callers that have already unlocked a
// vault use this instead of re-deriving the key by hand, so the
// Argon2id parameters stay centralized in vault/vaultcrypto.
func DeriveKey(password []byte) ([vaultcrypto.KeySize]byte, error) {
	var key [vaultcrypto.KeySize]byte

	salt, err := ExtractSalt()
	if err != nil {
		return key, err
	}

	return vaultcrypto.DeriveKey(password, salt[:]), nil
}

// Load reads and decrypts the vault file.
func Load(password []byte) (*vault.Vault, error) {
	path, err := VaultPath()
	if err != nil {
		return nil, err
	}

	exists, err := Exists()
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, ErrVaultNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return vault.Unmarshal(data, password)
}

// Save serializes and encrypts v, reusing the existing file's salt when
// one is already on disk (the stable-salt invariant), and writes it with
// atomic write-temp-then-fsync-then-rename semantics. The vault
// directory is created if absent.
func Save(v *vault.Vault, password []byte) error {
	path, err := VaultPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	var salt *[vaultcrypto.SaltSize]byte

	exists, err := Exists()
	if err != nil {
		return err
	}

	if exists {
		existing, err := ExtractSalt()
		if err != nil {
			return err
		}

		salt = &existing
	}

	data, err := vault.Marshal(v, password, salt)
	if err != nil {
		return err
	}

	return writeAtomic(path, data)
}

// CreateVault initializes and saves a brand-new, empty vault under
// password, generating a fresh salt, and returns it.
func CreateVault(password []byte) (*vault.Vault, error) {
	v := vault.New()

	if err := Save(v, password); err != nil {
		return nil, err
	}

	return v, nil
}

// writeAtomic writes data to a ".tmp" sibling of path, fsyncs it, then
// renames it over path. The rename is atomic within the filesystem.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
