package securestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

// keySize is the required master key length, 256 bits for AES-256.
const keySize = 32

// hkdfInfo provides domain separation for the derived encryption key.
const hkdfInfo = "nutrikit-securestore-v1"

// EncryptedFile stores each secret as an AES-256-GCM encrypted file under a
// directory. It serves headless hosts where no OS keyring is available.
type EncryptedFile struct {
	dir string
	key []byte
}

// NewEncryptedFile creates a file-backed store rooted at dir. The master key
// must be 32 bytes; the actual encryption key is derived from it with HKDF.
// The directory is created on first write.
func NewEncryptedFile(dir string, masterKey []byte) (*EncryptedFile, error) {
	if len(masterKey) != keySize {
		return nil, ErrInvalidKey
	}

	key, err := deriveKey(masterKey)
	if err != nil {
		return nil, err
	}

	return &EncryptedFile{dir: dir, key: key}, nil
}

func (s *EncryptedFile) Get(key string) (string, error) {
	blob, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}

	plaintext, err := s.decrypt(blob)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (s *EncryptedFile) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	blob, err := s.encrypt([]byte(value))
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(key), blob, 0o600)
}

func (s *EncryptedFile) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// path maps a storage key to a filename. Keys are base32-encoded so arbitrary
// key strings cannot escape the store directory.
func (s *EncryptedFile) path(key string) string {
	name := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(key))
	return filepath.Join(s.dir, name)
}

// encrypt seals plaintext as nonce||ciphertext||tag.
func (s *EncryptedFile) encrypt(plaintext []byte) ([]byte, error) {
	aead, err := s.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *EncryptedFile) decrypt(blob []byte) ([]byte, error) {
	aead, err := s.aead()
	if err != nil {
		return nil, err
	}

	if len(blob) < aead.NonceSize() {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

func (s *EncryptedFile) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// deriveKey expands the master key into the file encryption key using HKDF
// with SHA-256.
func deriveKey(masterKey []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfo))

	key := make([]byte, keySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
