package vaultcrypto

import "errors"

// Error kinds surfaced by the crypto primitives.
//
// DecryptionFailed is intentionally opaque: it must not distinguish a bad
// key from a tampered ciphertext or a bad nonce, to avoid giving an
// attacker a tag oracle.
var (
	ErrKeyDerivationFailed = errors.New("vaultcrypto: key derivation failed")
	ErrEncryptionFailed    = errors.New("vaultcrypto: encryption failed")
	ErrDecryptionFailed    = errors.New("vaultcrypto: decryption failed")
	ErrInvalidKeyLength    = errors.New("vaultcrypto: invalid key length")
	ErrInvalidNonce        = errors.New("vaultcrypto: invalid nonce length")
)
