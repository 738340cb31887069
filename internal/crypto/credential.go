package crypto

import (
	"fmt"
)

// EncodeCredential renders signature ‖ ciphertext as URL-safe base64 with
// padding. The signature always comes first.
func EncodeCredential(sig Signature, ciphertext []byte) string {
	out := make([]byte, 0, SignatureSize+len(ciphertext))
	out = append(out, sig[:]...)
	out = append(out, ciphertext...)
	return ToBase64URL(out)
}

// DecodeCredential splits an encoded credential back into its signature and
// ciphertext. Padding stripped in transit is tolerated.
func DecodeCredential(encoded string) (Signature, []byte, error) {
	var sig Signature

	raw, err := DecodeBase64(encoded)
	if err != nil {
		return sig, nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if len(raw) <= SignatureSize {
		return sig, nil, fmt.Errorf("%w: %d bytes", ErrMalformedCredential, len(raw))
	}
	if raw[0] != SignatureMarker {
		return sig, nil, fmt.Errorf("%w: signature marker 0x%02x", ErrMalformedCredential, raw[0])
	}

	copy(sig[:], raw[:SignatureSize])
	return sig, raw[SignatureSize:], nil
}

// EncodedCredentialLength returns the length of an encoded credential for a
// modulus of keySize bytes.
func EncodedCredentialLength(keySize int) int {
	return ((SignatureSize + keySize + 2) / 3) * 4
}
