package sshkey

import "errors"

var (
	// ErrKeyGenerationFailed is returned when the OS CSPRNG fails during
	// ed25519 keypair generation.
	ErrKeyGenerationFailed = errors.New("sshkey: key generation failed")

	// ErrInvalidKeyFormat is returned when a stored key does not have
	// the expected ed25519 seed length.
	ErrInvalidKeyFormat = errors.New("sshkey: invalid key format")
)
