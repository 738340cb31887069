package crypto

const (
	// SignatureSize is the size of the key signature prefix in bytes.
	SignatureSize = 5
	// SignatureMarker is the first byte of every key signature.
	SignatureMarker = 0x00
	// SignatureDigestBytes is the number of SHA-1 digest bytes carried in
	// the key signature.
	SignatureDigestBytes = SignatureSize - 1

	// PKCS1v15Overhead is the number of bytes PKCS#1 v1.5 encryption padding
	// consumes from each block.
	PKCS1v15Overhead = 11

	// CredentialDelimiter separates the email from the password in the
	// encrypted plaintext.
	CredentialDelimiter = 0x00
)

// KeyVersion names a public key blob published for the login protocol.
// Rotating the key means supplying a different KeyVersion; field offsets are
// derived from the blob itself.
type KeyVersion struct {
	// Name identifies the client release the key shipped with.
	Name string
	// Blob is the standard base64 encoding of the key blob.
	Blob string
}

// GoogleDefaultKey is the public key shipped with Google Play Services
// 7.3.29. Decoded, it holds a 1024-bit modulus at offset 4 and the exponent
// 65537 at offset 136.
var GoogleDefaultKey = KeyVersion{
	Name: "7.3.29",
	Blob: "AAAAgMom/1a/v0lblO2Ubrt60J2gcuXSljGFQXgcyZWveWLEwo6prwgi3iJIZdodyhKZQrNWp5nKJ3srRXcUW+F1BD3baEVGcmEgqaLZUNBjm057pKRI16kB0YppeGx5qIQ5QjKzsR8ETQbKLNWgRY0QRNVz34kMJR3P/LgHax/6rmf5AAAAAwEAAQ==",
}
