// Package session implements the short-lived, encrypted password cache
// that lets multiple vaultx invocations within the same shell share a
// master passphrase without reprompting. The cache lives under the OS
// temp directory, keyed to a session identifier derived from process
// ancestry, not from any secret the scheme assumes is private to the
// user.
package session

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/skdas20/vaultx/vaultcrypto"
)

const (
	cacheFilePrefix = "vaultx_session_"
	cacheFileSuffix = ".cache"
	saltTileSize    = 16
)

// cachePath returns the path to this session's cache file.
func cachePath() string {
	id := identifier()
	name := cacheFilePrefix + strconv.FormatUint(uint64(id), 10) + cacheFileSuffix

	return filepath.Join(os.TempDir(), name)
}

// identifier returns the session identifier: the caller's parent PID
// when it can be determined (so sibling invocations from the same shell
// share a cache), otherwise the caller's own PID.
func identifier() uint32 {
	if runtime.GOOS == "linux" {
		if ppid, ok := linuxParentPID(); ok {
			return ppid
		}
	}

	return uint32(os.Getpid())
}

// linuxParentPID reads /proc/self/stat and extracts the PPID field. The
// comm field (2nd column) is parenthesized and may itself contain spaces
// or parens, so parsing starts after the last ')' rather than
// whitespace-splitting the whole line.
func linuxParentPID() (uint32, bool) {
	data, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, false
	}

	stat := string(data)

	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return 0, false
	}

	fields := strings.Fields(stat[end+1:])
	if len(fields) < 2 {
		return 0, false
	}

	ppid, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(ppid), true
}

// deriveSessionKey derives this session's cache encryption key
// deterministically from the session identifier: the salt is the
// identifier's little-endian bytes tiled to 16 bytes with a per-byte
// offset added, so the derivation never depends on filesystem or clock
// state.
func deriveSessionKey() [vaultcrypto.KeySize]byte {
	id := identifier()

	idBytes := []byte{
		byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24),
	}

	var salt [saltTileSize]byte
	for i := range salt {
		salt[i] = idBytes[i%len(idBytes)] + byte(i)
	}

	passwordInput := []byte("vaultx_session_" + strconv.FormatUint(uint64(id), 10) + "_key")

	return vaultcrypto.DeriveKey(passwordInput, salt[:])
}

// Cache encrypts password under the session key and writes it to the
// cache file with mode 0600 on Unix, fsynced before return.
func Cache(password []byte) error {
	key := deriveSessionKey()

	encrypted, err := vaultcrypto.Encrypt(password, key)
	if err != nil {
		return err
	}

	// The first 32 bytes are zero padding, not the session key: the key
	// is re-derived at read time and never needs to be stored.
	data := make([]byte, 0, vaultcrypto.KeySize+vaultcrypto.NonceSize+len(encrypted.Ciphertext))
	data = append(data, make([]byte, vaultcrypto.KeySize)...)
	data = append(data, encrypted.Nonce[:]...)
	data = append(data, encrypted.Ciphertext...)

	path := cachePath()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if err := f.Chmod(0o600); err != nil {
		f.Close()
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Get returns the cached passphrase, or nil if no cache exists, it is
// too short to be a valid container, or decryption fails. A failed read
// removes the stale file so the next Cache call starts clean.
func Get() ([]byte, error) {
	path := cachePath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	minSize := vaultcrypto.KeySize + vaultcrypto.NonceSize
	if len(data) < minSize {
		_ = Clear()
		return nil, nil
	}

	key := deriveSessionKey()

	var nonce [vaultcrypto.NonceSize]byte
	copy(nonce[:], data[vaultcrypto.KeySize:minSize])

	ciphertext := data[minSize:]

	password, err := vaultcrypto.Decrypt(vaultcrypto.EncryptedData{
		Ciphertext: ciphertext,
		Nonce:      nonce,
	}, key)
	if err != nil {
		_ = Clear()
		return nil, nil
	}

	return password, nil
}

// Clear deletes the cache file if present.
func Clear() error {
	err := os.Remove(cachePath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
