// Package vaultcrypto provides the cryptographic primitives the vault is
// built on: Argon2id key derivation and AES-256-GCM authenticated
// encryption. Every other package in this module treats these as opaque
// building blocks and never reaches for crypto/aes or
// golang.org/x/crypto/argon2 directly.
package vaultcrypto

// EncryptedData bundles an AEAD ciphertext with the nonce used to produce
// it. The nonce must accompany the ciphertext wherever it is stored or
// transmitted; it is not secret, but it must never be reused under the same
// key.
type EncryptedData struct {
	Ciphertext []byte
	Nonce      [NonceSize]byte
}

// GenerateSalt returns a fresh 32-byte Argon2id salt sampled from the OS
// CSPRNG.
func GenerateSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte

	b, err := RandBytes(SaltSize)
	if err != nil {
		return salt, ErrKeyDerivationFailed
	}

	copy(salt[:], b)

	return salt, nil
}

// Encrypt encrypts plaintext under key using AES-256-GCM. A fresh nonce is
// sampled for every call; callers must never supply or reuse a nonce
// themselves. The authentication tag is appended to the returned ciphertext,
// per the standard GCM convention.
func Encrypt(plaintext []byte, key [KeySize]byte) (EncryptedData, error) {
	nonceBytes, err := RandBytes(NonceSize)
	if err != nil {
		return EncryptedData{}, ErrEncryptionFailed
	}

	aesgcm, err := NewAESGCM(key[:])
	if err != nil {
		return EncryptedData{}, ErrEncryptionFailed
	}

	ciphertext, err := aesgcm.Seal(nonceBytes, plaintext)
	if err != nil {
		return EncryptedData{}, ErrEncryptionFailed
	}

	var nonce [NonceSize]byte

	copy(nonce[:], nonceBytes)

	return EncryptedData{Ciphertext: ciphertext, Nonce: nonce}, nil
}

// Decrypt authenticates and decrypts an [EncryptedData] under key. Any
// failure — a wrong key, a tampered ciphertext, a bad nonce, or a tag
// mismatch — collapses to the single opaque [ErrDecryptionFailed]; the
// caller cannot distinguish the subcause, which is deliberate.
func Decrypt(data EncryptedData, key [KeySize]byte) ([]byte, error) {
	aesgcm, err := NewAESGCM(key[:])
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aesgcm.Open(data.Nonce[:], data.Ciphertext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
