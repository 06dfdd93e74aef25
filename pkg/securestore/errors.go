package securestore

import "errors"

var (
	// ErrNotFound indicates no value is stored under the requested key.
	ErrNotFound = errors.New("securestore: not found")

	// ErrInvalidKey indicates the encryption key has the wrong length.
	ErrInvalidKey = errors.New("securestore: encryption key must be 32 bytes")

	// ErrInvalidCiphertext indicates the stored blob is too short or corrupt.
	ErrInvalidCiphertext = errors.New("securestore: invalid ciphertext")

	// ErrDecryptionFailed indicates the blob failed authentication, typically
	// because it was written with a different key.
	ErrDecryptionFailed = errors.New("securestore: decryption failed")
)
