package ttl_test

import (
	"errors"
	"testing"

	"github.com/skdas20/vaultx/ttl"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr error
	}{
		{name: "minutes", input: "30m", want: 1800},
		{name: "hours", input: "6h", want: 21600},
		{name: "days", input: "7d", want: 604800},
		{name: "weeks", input: "2w", want: 1209600},
		{name: "whitespace trimmed", input: "  30m  ", want: 1800},
		{name: "zero", input: "0h", wantErr: ttl.ErrZeroOrNegative},
		{name: "bad unit", input: "10x", wantErr: &ttl.InvalidUnitError{Unit: 'x'}},
		{name: "empty", input: "", wantErr: &ttl.InvalidFormatError{Input: ""}},
		{name: "missing unit", input: "10", wantErr: &ttl.InvalidFormatError{Input: "10"}},
		{name: "missing digits", input: "h", wantErr: &ttl.InvalidFormatError{Input: "h"}},
		{name: "non-digit body", input: "ab1h", wantErr: &ttl.InvalidFormatError{Input: "ab1h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ttl.ParseTTL(tt.input)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("ParseTTL(%q): expected error, got nil", tt.input)
				}

				var invalidUnit *ttl.InvalidUnitError
				if errors.As(tt.wantErr, &invalidUnit) {
					var got *ttl.InvalidUnitError
					if !errors.As(err, &got) || *got != *invalidUnit {
						t.Fatalf("ParseTTL(%q) = %v, want %v", tt.input, err, tt.wantErr)
					}

					return
				}

				var invalidFormat *ttl.InvalidFormatError
				if errors.As(tt.wantErr, &invalidFormat) {
					var got *ttl.InvalidFormatError
					if !errors.As(err, &got) {
						t.Fatalf("ParseTTL(%q) = %v, want InvalidFormatError", tt.input, err)
					}

					return
				}

				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseTTL(%q) = %v, want %v", tt.input, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseTTL(%q): unexpected error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Fatalf("ParseTTL(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTTL_Overflow(t *testing.T) {
	_, err := ttl.ParseTTL("18446744073709551615w")
	if !errors.Is(err, ttl.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestIsExpired(t *testing.T) {
	t1000 := uint64(1000)

	if ttl.IsExpired(nil, 0) {
		t.Error("nil expiry should never be expired")
	}

	if ttl.IsExpired(nil, ^uint64(0)) {
		t.Error("nil expiry should never be expired, even at max timestamp")
	}

	if ttl.IsExpired(&t1000, 999) {
		t.Error("now < expiry should not be expired")
	}

	if !ttl.IsExpired(&t1000, 1000) {
		t.Error("now == expiry should be expired (half-open interval)")
	}

	if !ttl.IsExpired(&t1000, 1001) {
		t.Error("now > expiry should be expired")
	}
}

func TestCalculateExpiry(t *testing.T) {
	got := ttl.CalculateExpiry(3600, 1000)
	if got == nil || *got != 4600 {
		t.Fatalf("CalculateExpiry(3600, 1000) = %v, want 4600", got)
	}

	overflowed := ttl.CalculateExpiry(^uint64(0), 1)
	if overflowed != nil {
		t.Fatalf("CalculateExpiry should return nil on overflow, got %v", *overflowed)
	}
}
