package vaultcrypto

import (
	"golang.org/x/crypto/argon2"
)

// KeySize is the length, in bytes, of a derived encryption key.
const KeySize = 32

// SaltSize is the length, in bytes, of the Argon2id salt stored in the
// vault container.
const SaltSize = 32

// Argon2id parameters, fixed for the lifetime of the vault format.
// Changing any of these is a container format break: a vault saved under
// one set of parameters cannot be opened by a build using another, since
// the derived key would differ for the same password and salt.
const (
	argon2Memory      = 64 * 1024 // KiB, i.e. 64 MiB
	argon2Iterations  = 3
	argon2Parallelism = 4
)

// DeriveKey derives a 32-byte encryption key from password and salt using
// Argon2id with the vault's fixed parameters (64 MiB memory, 3 iterations,
// 4 lanes). golang.org/x/crypto/argon2.IDKey always computes the version
// 0x13 (19) variant of the algorithm, matching the version pinned by the
// on-disk contract.
func DeriveKey(password, salt []byte) [KeySize]byte {
	var key [KeySize]byte

	derived := argon2.IDKey(password, salt, argon2Iterations, argon2Memory, argon2Parallelism, KeySize)
	copy(key[:], derived)

	return key
}
