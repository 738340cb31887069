package crypto

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is mandated by the login protocol's key signature.
	"encoding/hex"
)

// Signature identifies the public key a credential was encrypted under.
type Signature [SignatureSize]byte

// KeySignature derives the signature of a key blob: the marker byte followed
// by the first four bytes of SHA-1 over the raw blob.
func KeySignature(blob KeyBlob) Signature {
	digest := sha1.Sum(blob)

	var sig Signature
	sig[0] = SignatureMarker
	copy(sig[1:], digest[:SignatureDigestBytes])
	return sig
}

// String returns the lowercase hex form of the signature.
func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}
