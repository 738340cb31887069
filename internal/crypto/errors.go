package crypto

import "errors"

var (
	// ErrMalformedKeyBlob is returned when the key blob fails to decode or
	// does not match the length-prefixed modulus/exponent layout.
	ErrMalformedKeyBlob = errors.New("malformed key blob")

	// ErrInvalidKeyComponents is returned when the modulus or exponent is
	// zero, the modulus is even, or the exponent does not fit an int.
	ErrInvalidKeyComponents = errors.New("invalid key components")

	// ErrPlaintextTooLong is returned when email, delimiter and password do
	// not fit in a single PKCS#1 v1.5 block for the key size.
	ErrPlaintextTooLong = errors.New("plaintext too long")

	// ErrMalformedCredential is returned when an encoded credential does not
	// decode to a signature followed by a ciphertext.
	ErrMalformedCredential = errors.New("malformed encrypted credential")
)
