package vaulterrors

import "errors"

var (
	ErrVaultFileExists           = errors.New("vault file already exists")
	ErrVaultFileNotFound         = errors.New("vault file does not exist")
	ErrWrongPassword             = errors.New("incorrect vault password")
	ErrEmptyPassword             = errors.New("empty vault password")
	ErrNonInteractiveUnsupported = errors.New("non-interactive input not supported")
	ErrEmptySecret               = errors.New("secret cannot be empty")
)
