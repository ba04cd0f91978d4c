// Package vault implements the in-memory data model for a VaultX vault —
// projects, secrets, SSH identities, and SSH server shorthands — and the
// byte-exact encrypted container format used to persist it. Every byte
// slice that must round-trip through JSON ([]byte fields below) relies on
// encoding/json's built-in base64 encoding of []byte; no custom
// marshaler is needed.
package vault

import (
	"github.com/skdas20/vaultx/ttl"
	"github.com/skdas20/vaultx/vaultcrypto"
)

// FormatVersion is the current on-disk vault format version.
const FormatVersion = 1

// Secret is a single encrypted value stored under a project. The JSON
// tag on Name is "key", not "name", matching the wire schema: a secret
// is keyed by name within its project map, and the field mirrors that
// key for convenience when the map is flattened.
type Secret struct {
	Name           string  `json:"key"`
	EncryptedValue []byte  `json:"encrypted_value"`
	Nonce          []byte  `json:"nonce"`
	CreatedAt      uint64  `json:"created_at"`
	ExpiresAt      *uint64 `json:"expires_at,omitempty"`
}

// Project is a named collection of secrets.
type Project struct {
	Name      string             `json:"name"`
	Secrets   map[string]*Secret `json:"secrets"`
	CreatedAt uint64             `json:"created_at"`
}

// SshIdentity is an ed25519 keypair stored under a name. The private seed
// is never held in plaintext outside of an in-flight operation.
type SshIdentity struct {
	Name                string `json:"name"`
	PublicKey           string `json:"public_key"`
	EncryptedPrivateKey []byte `json:"encrypted_private_key"`
	Nonce               []byte `json:"nonce"`
	CreatedAt           uint64 `json:"created_at"`
}

// SshServerConfig is a shorthand binding a host to an identity.
type SshServerConfig struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	IPAddress    string `json:"ip_address"`
	IdentityName string `json:"identity_name"`
	CreatedAt    uint64 `json:"created_at"`
}

// Vault is the root aggregate held in memory and, encrypted, on disk.
type Vault struct {
	Version       uint32                      `json:"version"`
	Projects      map[string]*Project         `json:"projects"`
	SshIdentities map[string]*SshIdentity     `json:"ssh_identities"`
	SshServers    map[string]*SshServerConfig `json:"ssh_servers"`
}

// New returns an empty vault at the current format version.
func New() *Vault {
	return &Vault{
		Version:       FormatVersion,
		Projects:      make(map[string]*Project),
		SshIdentities: make(map[string]*SshIdentity),
		SshServers:    make(map[string]*SshServerConfig),
	}
}

// InitProject inserts a fresh, empty project. No validation of name's
// character set is performed at this layer.
func (v *Vault) InitProject(name string) error {
	if _, ok := v.Projects[name]; ok {
		return ErrProjectAlreadyExists
	}

	v.Projects[name] = &Project{
		Name:      name,
		Secrets:   make(map[string]*Secret),
		CreatedAt: ttl.CurrentTimestamp(),
	}

	return nil
}

// RemoveProject deletes a project and every secret it contains.
func (v *Vault) RemoveProject(name string) error {
	if _, ok := v.Projects[name]; !ok {
		return ErrProjectNotFound
	}

	delete(v.Projects, name)

	return nil
}

// AddSecret encrypts value under key and stores it in project under name,
// silently replacing any existing secret of the same name. ttlSeconds, if
// non-nil, is used to compute an absolute expires_at relative to now.
func (v *Vault) AddSecret(project, name string, value []byte, key [vaultcrypto.KeySize]byte, ttlSeconds *uint64) error {
	proj, ok := v.Projects[project]
	if !ok {
		return ErrProjectNotFound
	}

	encrypted, err := vaultcrypto.Encrypt(value, key)
	if err != nil {
		return err
	}

	now := ttl.CurrentTimestamp()

	var expiresAt *uint64
	if ttlSeconds != nil {
		expiresAt = ttl.CalculateExpiry(*ttlSeconds, now)
	}

	proj.Secrets[name] = &Secret{
		Name:           name,
		EncryptedValue: encrypted.Ciphertext,
		Nonce:          encrypted.Nonce[:],
		CreatedAt:      now,
		ExpiresAt:      expiresAt,
	}

	return nil
}

// GetSecret decrypts and returns the plaintext value of a secret. Expiry
// is checked against the current wall clock before decryption is
// attempted.
func (v *Vault) GetSecret(project, name string, key [vaultcrypto.KeySize]byte) ([]byte, error) {
	proj, ok := v.Projects[project]
	if !ok {
		return nil, ErrProjectNotFound
	}

	secret, ok := proj.Secrets[name]
	if !ok {
		return nil, ErrSecretNotFound
	}

	if ttl.IsExpired(secret.ExpiresAt, ttl.CurrentTimestamp()) {
		return nil, ErrSecretExpired
	}

	var nonce [vaultcrypto.NonceSize]byte
	copy(nonce[:], secret.Nonce)

	return vaultcrypto.Decrypt(vaultcrypto.EncryptedData{
		Ciphertext: secret.EncryptedValue,
		Nonce:      nonce,
	}, key)
}

// RemoveSecret deletes a single secret from a project.
func (v *Vault) RemoveSecret(project, name string) error {
	proj, ok := v.Projects[project]
	if !ok {
		return ErrProjectNotFound
	}

	if _, ok := proj.Secrets[name]; !ok {
		return ErrSecretNotFound
	}

	delete(proj.Secrets, name)

	return nil
}

// AddSshIdentity encrypts privateKey (the 32-byte ed25519 seed) under key
// and stores it under name alongside its OpenSSH-formatted public key.
func (v *Vault) AddSshIdentity(name, publicKey string, privateKey []byte, key [vaultcrypto.KeySize]byte) error {
	if _, ok := v.SshIdentities[name]; ok {
		return ErrIdentityAlreadyExists
	}

	encrypted, err := vaultcrypto.Encrypt(privateKey, key)
	if err != nil {
		return err
	}

	v.SshIdentities[name] = &SshIdentity{
		Name:                name,
		PublicKey:           publicKey,
		EncryptedPrivateKey: encrypted.Ciphertext,
		Nonce:               encrypted.Nonce[:],
		CreatedAt:           ttl.CurrentTimestamp(),
	}

	return nil
}

// GetSshIdentity decrypts and returns an identity's public key text and
// private seed.
func (v *Vault) GetSshIdentity(name string, key [vaultcrypto.KeySize]byte) (publicKey string, privateKey []byte, err error) {
	identity, ok := v.SshIdentities[name]
	if !ok {
		return "", nil, ErrIdentityNotFound
	}

	var nonce [vaultcrypto.NonceSize]byte
	copy(nonce[:], identity.Nonce)

	privateKey, err = vaultcrypto.Decrypt(vaultcrypto.EncryptedData{
		Ciphertext: identity.EncryptedPrivateKey,
		Nonce:      nonce,
	}, key)
	if err != nil {
		return "", nil, err
	}

	return identity.PublicKey, privateKey, nil
}

// AddSshServer records a host shorthand bound to an existing identity.
// identityName must reference an identity already present in the vault;
// the binding is a name reference, not enforced on load.
func (v *Vault) AddSshServer(name, username, ipAddress, identityName string) error {
	if _, ok := v.SshIdentities[identityName]; !ok {
		return ErrIdentityNotFound
	}

	if _, ok := v.SshServers[name]; ok {
		return ErrServerAlreadyExists
	}

	v.SshServers[name] = &SshServerConfig{
		Name:         name,
		Username:     username,
		IPAddress:    ipAddress,
		IdentityName: identityName,
		CreatedAt:    ttl.CurrentTimestamp(),
	}

	return nil
}

// GetSshServer returns a stored server shorthand.
func (v *Vault) GetSshServer(name string) (*SshServerConfig, error) {
	server, ok := v.SshServers[name]
	if !ok {
		return nil, ErrServerNotFound
	}

	return server, nil
}

// HasSshServer reports whether a server shorthand with the given name
// exists.
func (v *Vault) HasSshServer(name string) bool {
	_, ok := v.SshServers[name]

	return ok
}
