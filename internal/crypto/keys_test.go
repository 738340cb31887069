package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// defaultKeySignature is SHA-1 over the raw GoogleDefaultKey blob, truncated
// to four bytes and prefixed with the marker byte.
var defaultKeySignature = Signature{0x00, 0x57, 0x1b, 0xe0, 0xa4}

var (
	testKeyOnce     sync.Once
	internalTestKey *rsa.PrivateKey
)

// testKey returns a singleton 1024-bit key, the same size as the default
// key, so ciphertexts can be decrypted in round-trip tests.
func testKey() *rsa.PrivateKey {
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 1024)
		if err != nil {
			panic("failed to generate test RSA key: " + err.Error())
		}

		internalTestKey = key
	})

	return internalTestKey
}

// testKeyVersion publishes the public half of key as a KeyVersion.
func testKeyVersion(t *testing.T, name string, key *rsa.PrivateKey) KeyVersion {
	t.Helper()

	blob, err := BuildKeyBlob(&PublicKeyComponents{
		Modulus:  key.N,
		Exponent: big.NewInt(int64(key.E)),
	})
	require.NoError(t, err)

	return KeyVersion{Name: name, Blob: ToBase64(blob)}
}
