package ttl

import (
	"errors"
	"fmt"
)

// Sentinel and typed errors returned by [ParseTTL].
var (
	// ErrZeroOrNegative is returned when the numeric part of a duration
	// string parses to zero. TTLs must be strictly positive.
	ErrZeroOrNegative = errors.New("ttl: value must be strictly positive")

	// ErrOverflow is returned when value*multiplier would overflow a
	// 64-bit unsigned integer.
	ErrOverflow = errors.New("ttl: overflow computing seconds")
)

// InvalidFormatError indicates the input did not match the duration
// grammar: one or more ASCII digits followed by exactly one unit character.
type InvalidFormatError struct {
	Input string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("ttl: invalid format: %q", e.Input)
}

// InvalidUnitError indicates the unit character following the digits was
// not one of m, h, d, w.
type InvalidUnitError struct {
	Unit rune
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("ttl: invalid unit: %q", e.Unit)
}
