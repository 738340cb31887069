package gpsauth

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"sync"

	"github.com/vaultsandbox/gpsauth-go/internal/crypto"
)

// KeyVersion names a published Android login public key.
type KeyVersion = crypto.KeyVersion

// Signature identifies the key a credential was encrypted for.
type Signature = crypto.Signature

// GoogleDefaultKey is the login public key shipped with Play Services 7.3.29.
var GoogleDefaultKey = crypto.GoogleDefaultKey

// encrypterConfig holds configuration for an Encrypter.
type encrypterConfig struct {
	keyVersion KeyVersion
}

// EncrypterOption configures an Encrypter.
type EncrypterOption func(*encrypterConfig)

// WithKeyVersion selects the public key to encrypt for.
func WithKeyVersion(version KeyVersion) EncrypterOption {
	return func(c *encrypterConfig) {
		c.keyVersion = version
	}
}

// Encrypter produces EncryptedPasswd values for one public key. The key is
// parsed once by NewEncrypter; an Encrypter is safe for concurrent use.
type Encrypter struct {
	version   KeyVersion
	publicKey *rsa.PublicKey
	signature Signature
}

// NewEncrypter loads and validates the configured key.
func NewEncrypter(opts ...EncrypterOption) (*Encrypter, error) {
	cfg := &encrypterConfig{keyVersion: GoogleDefaultKey}
	for _, opt := range opts {
		opt(cfg)
	}

	blob, components, err := crypto.LoadKey(cfg.keyVersion)
	if err != nil {
		return nil, err
	}
	pub, err := crypto.NewPublicKey(components)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", cfg.keyVersion.Name, err)
	}

	return &Encrypter{
		version:   cfg.keyVersion,
		publicKey: pub,
		signature: crypto.KeySignature(blob),
	}, nil
}

// EncryptPassword encrypts email and password into the URL-safe base64
// string sent as EncryptedPasswd. Each call yields a different string.
func (e *Encrypter) EncryptPassword(email, password string) (string, error) {
	if err := validateCredential("email", email); err != nil {
		return "", err
	}
	if err := validateCredential("password", password); err != nil {
		return "", err
	}

	ciphertext, err := crypto.EncryptCredential(e.publicKey, email, password)
	if err != nil {
		return "", err
	}
	return crypto.EncodeCredential(e.signature, ciphertext), nil
}

// Signature returns the key signature prefixed to every credential.
func (e *Encrypter) Signature() Signature {
	return e.signature
}

// KeyVersion returns the key the Encrypter was built for.
func (e *Encrypter) KeyVersion() KeyVersion {
	return e.version
}

// KeySize returns the modulus length in bytes.
func (e *Encrypter) KeySize() int {
	return e.publicKey.Size()
}

// MaxCredentialLength returns the largest len(email)+len(password)+1 the key
// accepts.
func (e *Encrypter) MaxCredentialLength() int {
	return crypto.MaxCredentialLength(e.publicKey)
}

// EncodedLength returns the length of every string EncryptPassword returns.
func (e *Encrypter) EncodedLength() int {
	return crypto.EncodedCredentialLength(e.KeySize())
}

func validateCredential(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidCredential, field)
	}
	if strings.IndexByte(value, 0) >= 0 {
		return fmt.Errorf("%w: %s contains a NUL byte", ErrInvalidCredential, field)
	}
	return nil
}

var defaultEncrypter = sync.OnceValues(func() (*Encrypter, error) {
	return NewEncrypter()
})

// EncryptPassword encrypts email and password for GoogleDefaultKey.
func EncryptPassword(email, password string) (string, error) {
	enc, err := defaultEncrypter()
	if err != nil {
		return "", err
	}
	return enc.EncryptPassword(email, password)
}

// SelfCheck reports whether GoogleDefaultKey loads. Call it at startup to
// fail fast on a corrupted build.
func SelfCheck() error {
	_, err := defaultEncrypter()
	return err
}

// DecodeCredential splits an encrypted credential into its key signature
// and ciphertext.
func DecodeCredential(encoded string) (Signature, []byte, error) {
	return crypto.DecodeCredential(encoded)
}
