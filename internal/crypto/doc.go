// Package crypto produces the encrypted credential expected by the Google
// login protocol used by Android devices.
//
// # Pipeline
//
// An encrypted credential is built in four stages:
//
//   - [LoadKey] decodes a published key blob and extracts the RSA modulus
//     and exponent. The blob is two fields, each preceded by its length as a
//     big-endian uint32; for [GoogleDefaultKey] the modulus spans bytes
//     [4, 132) and the exponent bytes [136, 139).
//
//   - [KeySignature] tags the key: 0x00 followed by the first four bytes of
//     SHA-1 over the raw blob bytes.
//
//   - [EncryptCredential] encrypts email ‖ 0x00 ‖ password with RSA PKCS#1
//     v1.5 padding. The receiving service rejects OAEP.
//
//   - [EncodeCredential] concatenates signature and ciphertext and encodes
//     them as URL-safe base64 with '=' padding.
//
// [LoadKey] returns the raw blob with its components; the signature and the
// RSA key derive from the same bytes.
//
// # Security Notes
//
// Padding bytes come from crypto/rand. The plaintext buffer is cleared after
// encryption. Credentials and plaintexts should never be logged.
package crypto
