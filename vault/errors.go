package vault

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by [Vault] operations and the container codec.
var (
	ErrProjectAlreadyExists  = errors.New("vault: project already exists")
	ErrIdentityAlreadyExists = errors.New("vault: ssh identity already exists")
	ErrServerAlreadyExists   = errors.New("vault: ssh server already exists")

	ErrProjectNotFound  = errors.New("vault: project not found")
	ErrSecretNotFound   = errors.New("vault: secret not found")
	ErrIdentityNotFound = errors.New("vault: ssh identity not found")
	ErrServerNotFound   = errors.New("vault: ssh server not found")

	ErrSecretExpired = errors.New("vault: secret has expired")

	// ErrCorruptedVault indicates the container is shorter than the
	// fixed header+salt+nonce prefix, or a length field inside it cannot
	// be trusted.
	ErrCorruptedVault = errors.New("vault: corrupted container")

	// ErrAuthenticationFailed is returned when decryption fails, which
	// means either the password was wrong or the ciphertext was
	// tampered with. The two causes are deliberately indistinguishable.
	ErrAuthenticationFailed = errors.New("vault: authentication failed")

	// ErrSerializationError wraps a JSON marshal/unmarshal failure of
	// the vault's internal representation.
	ErrSerializationError = errors.New("vault: serialization error")
)

// InvalidFormatError indicates the container's magic bytes or version
// field did not match what this build expects.
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("vault: invalid format: %s", e.Reason)
}
