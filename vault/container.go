package vault

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/skdas20/vaultx/vaultcrypto"
)

// On-disk container layout:
//
//	magic(4B) | version(LE u32, 4B) | reserved(8B) | salt(32B) | nonce(12B) | ciphertext
//
// magic+version+reserved is the 16-byte header; header+salt is 48 bytes
// and must precede the nonce exactly. Every field offset here is a format
// contract: changing any of it breaks every vault saved by a prior build.
const (
	vaultMagic       = "VX01"
	headerSize       = 16
	saltOffset       = headerSize
	nonceOffset      = saltOffset + vaultcrypto.SaltSize
	minContainerSize = nonceOffset + vaultcrypto.NonceSize
)

// vaultData is the plaintext JSON payload encrypted inside the
// container. It mirrors [Vault] field-for-field; kept distinct so the
// wire shape stays stable even if Vault ever grows unexported bookkeeping
// fields.
type vaultData struct {
	Version       uint32                      `json:"version"`
	Projects      map[string]*Project         `json:"projects"`
	SshIdentities map[string]*SshIdentity     `json:"ssh_identities"`
	SshServers    map[string]*SshServerConfig `json:"ssh_servers"`
}

// Marshal serializes and encrypts v into the on-disk container format. If
// salt is non-nil it is reused verbatim (the stable-salt invariant
// required when resaving an existing vault); otherwise a fresh salt is
// generated.
func Marshal(v *Vault, password []byte, salt *[vaultcrypto.SaltSize]byte) ([]byte, error) {
	var s [vaultcrypto.SaltSize]byte

	if salt != nil {
		s = *salt
	} else {
		generated, err := vaultcrypto.GenerateSalt()
		if err != nil {
			return nil, err
		}

		s = generated
	}

	key := vaultcrypto.DeriveKey(password, s[:])

	data := vaultData{
		Version:       v.Version,
		Projects:      v.Projects,
		SshIdentities: v.SshIdentities,
		SshServers:    v.SshServers,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, ErrSerializationError
	}

	encrypted, err := vaultcrypto.Encrypt(payload, key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, minContainerSize+len(encrypted.Ciphertext))
	out = append(out, vaultMagic...)
	out = binary.LittleEndian.AppendUint32(out, FormatVersion)
	out = append(out, make([]byte, 8)...)
	out = append(out, s[:]...)
	out = append(out, encrypted.Nonce[:]...)
	out = append(out, encrypted.Ciphertext...)

	return out, nil
}

// Unmarshal decrypts and deserializes a container produced by [Marshal].
func Unmarshal(data []byte, password []byte) (*Vault, error) {
	if len(data) < minContainerSize {
		return nil, ErrCorruptedVault
	}

	if string(data[0:4]) != vaultMagic {
		return nil, &InvalidFormatError{Reason: "invalid magic bytes"}
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != FormatVersion {
		return nil, &InvalidFormatError{Reason: fmt.Sprintf("unsupported version: %d", version)}
	}

	salt, err := ExtractSalt(data)
	if err != nil {
		return nil, err
	}

	key := vaultcrypto.DeriveKey(password, salt[:])

	nonce := data[nonceOffset : nonceOffset+vaultcrypto.NonceSize]
	ciphertext := data[nonceOffset+vaultcrypto.NonceSize:]

	var nonceArr [vaultcrypto.NonceSize]byte
	copy(nonceArr[:], nonce)

	payload, err := vaultcrypto.Decrypt(vaultcrypto.EncryptedData{
		Ciphertext: ciphertext,
		Nonce:      nonceArr,
	}, key)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	var data2 vaultData
	if err := json.Unmarshal(payload, &data2); err != nil {
		return nil, ErrSerializationError
	}

	v := &Vault{
		Version:       data2.Version,
		Projects:      data2.Projects,
		SshIdentities: data2.SshIdentities,
		SshServers:    data2.SshServers,
	}

	if v.Projects == nil {
		v.Projects = make(map[string]*Project)
	}

	if v.SshIdentities == nil {
		v.SshIdentities = make(map[string]*SshIdentity)
	}

	if v.SshServers == nil {
		v.SshServers = make(map[string]*SshServerConfig)
	}

	return v, nil
}

// ExtractSalt reads the 32-byte salt out of a container without
// decrypting it, so callers can resave under the same salt without
// deriving the key twice.
func ExtractSalt(data []byte) ([vaultcrypto.SaltSize]byte, error) {
	var salt [vaultcrypto.SaltSize]byte

	if len(data) < minContainerSize {
		return salt, ErrCorruptedVault
	}

	copy(salt[:], data[saltOffset:saltOffset+vaultcrypto.SaltSize])

	return salt, nil
}
