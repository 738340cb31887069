package crypto

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
)

// KeyBlob is the raw binary form of a published public key. It is a
// sequence of two fields, modulus then exponent, each preceded by its length
// as a big-endian uint32.
type KeyBlob []byte

// PublicKeyComponents holds the unsigned magnitudes extracted from a KeyBlob.
type PublicKeyComponents struct {
	Modulus  *big.Int
	Exponent *big.Int
}

// DecodeKeyBlob decodes the standard base64 form of a key blob.
func DecodeKeyBlob(encoded string) (KeyBlob, error) {
	raw, err := FromBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKeyBlob, err)
	}
	return KeyBlob(raw), nil
}

// ParseKeyBlob extracts the modulus and exponent from a key blob.
func ParseKeyBlob(blob KeyBlob) (*PublicKeyComponents, error) {
	s := cryptobyte.String(blob)

	modulus, err := readField(&s, "modulus")
	if err != nil {
		return nil, err
	}
	exponent, err := readField(&s, "exponent")
	if err != nil {
		return nil, err
	}
	if !s.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedKeyBlob, len(s))
	}

	return &PublicKeyComponents{
		Modulus:  UnsignedBigEndian(modulus),
		Exponent: UnsignedBigEndian(exponent),
	}, nil
}

// LoadKey decodes and parses a key version, returning the raw blob alongside
// its components so both the signature and the RSA key derive from the same
// bytes.
func LoadKey(version KeyVersion) (KeyBlob, *PublicKeyComponents, error) {
	blob, err := DecodeKeyBlob(version.Blob)
	if err != nil {
		return nil, nil, fmt.Errorf("key %q: %w", version.Name, err)
	}
	components, err := ParseKeyBlob(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("key %q: %w", version.Name, err)
	}
	return blob, components, nil
}

// UnsignedBigEndian interprets b as an unsigned big-endian integer.
func UnsignedBigEndian(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

func readField(s *cryptobyte.String, name string) ([]byte, error) {
	var length uint32
	if !s.ReadUint32(&length) {
		return nil, fmt.Errorf("%w: missing %s length", ErrMalformedKeyBlob, name)
	}
	if length == 0 {
		return nil, fmt.Errorf("%w: empty %s", ErrMalformedKeyBlob, name)
	}
	if uint64(length) > uint64(len(*s)) {
		return nil, fmt.Errorf("%w: %s length %d exceeds remaining %d bytes",
			ErrMalformedKeyBlob, name, length, len(*s))
	}

	var field []byte
	if !s.ReadBytes(&field, int(length)) {
		return nil, fmt.Errorf("%w: truncated %s", ErrMalformedKeyBlob, name)
	}
	return field, nil
}

// BuildKeyBlob encodes components into the key blob layout. It is the inverse
// of ParseKeyBlob and is used to publish rotated keys.
func BuildKeyBlob(c *PublicKeyComponents) (KeyBlob, error) {
	if c == nil || c.Modulus == nil || c.Exponent == nil {
		return nil, ErrInvalidKeyComponents
	}

	var b cryptobyte.Builder
	for _, v := range []*big.Int{c.Modulus, c.Exponent} {
		field := v.Bytes()
		b.AddUint32(uint32(len(field)))
		b.AddBytes(field)
	}

	out, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("build key blob: %w", err)
	}
	return KeyBlob(out), nil
}
