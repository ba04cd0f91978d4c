package vaultcrypto_test

import (
	"bytes"
	"testing"

	"github.com/skdas20/vaultx/vaultcrypto"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt, err := vaultcrypto.GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}

	k1 := vaultcrypto.DeriveKey([]byte("password"), salt[:])
	k2 := vaultcrypto.DeriveKey([]byte("password"), salt[:])

	if k1 != k2 {
		t.Error("DeriveKey should be deterministic for the same password and salt")
	}
}

func TestDeriveKey_DifferentSaltsDiffer(t *testing.T) {
	salt1, err := vaultcrypto.GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}

	salt2, err := vaultcrypto.GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}

	k1 := vaultcrypto.DeriveKey([]byte("password"), salt1[:])
	k2 := vaultcrypto.DeriveKey([]byte("password"), salt2[:])

	if k1 == k2 {
		t.Error("DeriveKey should differ across salts")
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	var key [vaultcrypto.KeySize]byte
	copy(key[:], bytes.Repeat([]byte{0x42}, vaultcrypto.KeySize))

	plaintext := []byte("hello vault")

	enc, err := vaultcrypto.Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	got, err := vaultcrypto.Decrypt(enc, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Errorf("got %q, want %q", got, plaintext)
	}
}

func TestEncrypt_NonceIsFreshEachCall(t *testing.T) {
	var key [vaultcrypto.KeySize]byte

	e1, err := vaultcrypto.Encrypt([]byte("same plaintext"), key)
	if err != nil {
		t.Fatal(err)
	}

	e2, err := vaultcrypto.Encrypt([]byte("same plaintext"), key)
	if err != nil {
		t.Fatal(err)
	}

	if e1.Nonce == e2.Nonce {
		t.Error("nonces must not repeat across calls")
	}

	if bytes.Equal(e1.Ciphertext, e2.Ciphertext) {
		t.Error("ciphertexts should differ when nonces differ")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	var key [vaultcrypto.KeySize]byte
	var wrongKey [vaultcrypto.KeySize]byte
	wrongKey[0] = 1

	enc, err := vaultcrypto.Encrypt([]byte("secret"), key)
	if err != nil {
		t.Fatal(err)
	}

	_, err = vaultcrypto.Decrypt(enc, wrongKey)
	if err != vaultcrypto.ErrDecryptionFailed {
		t.Fatalf("got %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	var key [vaultcrypto.KeySize]byte

	enc, err := vaultcrypto.Encrypt([]byte("secret"), key)
	if err != nil {
		t.Fatal(err)
	}

	tampered := append([]byte(nil), enc.Ciphertext...)
	tampered[0] ^= 0xff
	enc.Ciphertext = tampered

	_, err = vaultcrypto.Decrypt(enc, key)
	if err != vaultcrypto.ErrDecryptionFailed {
		t.Fatalf("got %v, want ErrDecryptionFailed", err)
	}
}

func TestGenerateSalt_Uniqueness(t *testing.T) {
	s1, err := vaultcrypto.GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}

	s2, err := vaultcrypto.GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}

	if s1 == s2 {
		t.Error("two generated salts should not be equal")
	}
}
