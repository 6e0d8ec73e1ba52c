package profile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zalando/go-keyring"
)

const (
	// ObscuredPrefix marks a password stored as base64.
	ObscuredPrefix = "ENC:"

	// KeyringMarker marks a password kept in the OS keychain.
	KeyringMarker = "KEYRING:"

	keyringService = "alertsnap"
)

// CredentialDecodeError reports a stored password that could not be turned
// back into plaintext.
type CredentialDecodeError struct {
	Profile string
	Cause   error
}

func (e *CredentialDecodeError) Error() string {
	return fmt.Sprintf("decode password for %q: %v", e.Profile, e.Cause)
}

func (e *CredentialDecodeError) Unwrap() error {
	return e.Cause
}

// Obscure encodes a plaintext password into its at-rest form.
func Obscure(plain string) string {
	return ObscuredPrefix + base64.StdEncoding.EncodeToString([]byte(plain))
}

// Reveal decodes an at-rest password. Values without the ObscuredPrefix are
// returned unchanged.
func Reveal(stored string) (string, error) {
	encoded, ok := strings.CutPrefix(stored, ObscuredPrefix)
	if !ok {
		return stored, nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(raw) {
		return "", errors.New("decoded password is not valid UTF-8")
	}

	return string(raw), nil
}

// Secrets moves passwords between memory and their at-rest form.
type Secrets interface {
	// Seal returns the value written to the file for p.Password.
	Seal(p Profile) (string, error)

	// Open resolves a stored value back to plaintext.
	Open(p Profile, stored string) (string, error)

	// Forget drops any state kept for a removed profile.
	Forget(p Profile) error
}

// FileSecrets keeps obscured passwords in the profiles file itself.
type FileSecrets struct{}

// Seal implements Secrets.
func (FileSecrets) Seal(p Profile) (string, error) {
	return Obscure(p.Password), nil
}

// Open implements Secrets.
func (FileSecrets) Open(p Profile, stored string) (string, error) {
	if stored == KeyringMarker {
		return "", errors.New("password is kept in the OS keychain but the keychain store is disabled")
	}

	return Reveal(stored)
}

// Forget implements Secrets.
func (FileSecrets) Forget(Profile) error {
	return nil
}

// KeyringSecrets keeps passwords in the OS keychain and writes only a marker
// to the profiles file. Previously obscured values are still readable.
type KeyringSecrets struct {
	Service string
}

func (k KeyringSecrets) service() string {
	if k.Service == "" {
		return keyringService
	}

	return k.Service
}

func keyringAccount(p Profile) string {
	return p.key()
}

// Seal implements Secrets.
func (k KeyringSecrets) Seal(p Profile) (string, error) {
	err := keyring.Set(k.service(), keyringAccount(p), p.Password)
	if err != nil {
		return "", fmt.Errorf("store password in keychain: %w", err)
	}

	return KeyringMarker, nil
}

// Open implements Secrets.
func (k KeyringSecrets) Open(p Profile, stored string) (string, error) {
	if stored != KeyringMarker {
		return Reveal(stored)
	}

	secret, err := keyring.Get(k.service(), keyringAccount(p))
	if err != nil {
		return "", fmt.Errorf("read password from keychain: %w", err)
	}

	return secret, nil
}

// Forget implements Secrets.
func (k KeyringSecrets) Forget(p Profile) error {
	err := keyring.Delete(k.service(), keyringAccount(p))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete password from keychain: %w", err)
	}

	return nil
}
