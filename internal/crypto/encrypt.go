package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math"
)

// maxExponent is the largest public exponent crypto/rsa accepts.
const maxExponent = math.MaxInt32

// NewPublicKey builds an RSA public key from raw components.
func NewPublicKey(c *PublicKeyComponents) (*rsa.PublicKey, error) {
	if c == nil || c.Modulus == nil || c.Exponent == nil {
		return nil, fmt.Errorf("%w: missing modulus or exponent", ErrInvalidKeyComponents)
	}
	if c.Modulus.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus is zero", ErrInvalidKeyComponents)
	}
	if c.Modulus.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus is even", ErrInvalidKeyComponents)
	}
	if c.Exponent.Sign() <= 0 {
		return nil, fmt.Errorf("%w: exponent is zero", ErrInvalidKeyComponents)
	}
	if !c.Exponent.IsInt64() || c.Exponent.Int64() < 2 || c.Exponent.Int64() > maxExponent {
		return nil, fmt.Errorf("%w: exponent %s out of range", ErrInvalidKeyComponents, c.Exponent)
	}

	return &rsa.PublicKey{
		N: c.Modulus,
		E: int(c.Exponent.Int64()),
	}, nil
}

// MaxCredentialLength returns the largest email+delimiter+password length
// that fits in one PKCS#1 v1.5 block under pub.
func MaxCredentialLength(pub *rsa.PublicKey) int {
	return pub.Size() - PKCS1v15Overhead
}

// EncryptCredential encrypts email ‖ 0x00 ‖ password under pub with PKCS#1
// v1.5 padding. The ciphertext is exactly pub.Size() bytes. Callers are
// responsible for rejecting NUL bytes inside email or password.
func EncryptCredential(pub *rsa.PublicKey, email, password string) ([]byte, error) {
	if pub == nil || pub.N == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrInvalidKeyComponents)
	}

	n := len(email) + 1 + len(password)
	if limit := MaxCredentialLength(pub); n > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPlaintextTooLong, n, limit)
	}

	plaintext := make([]byte, 0, n)
	plaintext = append(plaintext, email...)
	plaintext = append(plaintext, CredentialDelimiter)
	plaintext = append(plaintext, password...)
	defer clear(plaintext)

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, pub, plaintext)
	if err != nil {
		return nil, fmt.Errorf("rsa encrypt: %w", err)
	}
	return ciphertext, nil
}
