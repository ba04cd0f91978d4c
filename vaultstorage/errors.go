package vaultstorage

import "errors"

var (
	// ErrVaultNotFound is returned when the vault file does not exist
	// at its configured path.
	ErrVaultNotFound = errors.New("vaultstorage: vault file not found")

	// ErrHomeUnresolved is returned when the process's home directory
	// cannot be determined.
	ErrHomeUnresolved = errors.New("vaultstorage: could not resolve home directory")
)
