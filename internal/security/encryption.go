// Package security provides encryption at rest for complaint documents and
// field-level data, plus integrity checksums.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keyIterations = 100000
	keyLength     = 32
)

// Encryptor encrypts and decrypts data with AES-256-GCM. The key is derived
// from a passphrase with PBKDF2-SHA256; the salt must stay stable across
// process restarts or previously encrypted data becomes unreadable.
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor derives an encryption key from the passphrase and salt.
func NewEncryptor(passphrase, salt string) (*Encryptor, error) {
	if passphrase == "" {
		return nil, errors.New("encryption passphrase is required")
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(salt), keyIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GCM")
	}

	return &Encryptor{aead: aead}, nil
}

// Encrypt seals plaintext with a random nonce. The nonce is prepended to the
// ciphertext.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "failed to generate nonce")
	}
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt.
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < e.aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ciphertext[:e.aead.NonceSize()], ciphertext[e.aead.NonceSize():]

	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt")
	}
	return plaintext, nil
}

// EncryptString encrypts a string and returns base64 output. Empty input
// passes through unchanged.
func (e *Encryptor) EncryptString(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	ciphertext, err := e.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString reverses EncryptString. Empty input passes through unchanged.
func (e *Encryptor) DecryptString(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode ciphertext")
	}
	plaintext, err := e.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptFile encrypts the file at path and writes the result to outPath.
func (e *Encryptor) EncryptFile(path, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read file")
	}
	ciphertext, err := e.Encrypt(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, ciphertext, 0o600); err != nil {
		return errors.Wrap(err, "failed to write encrypted file")
	}
	return nil
}

// DecryptFile decrypts the file at path and writes the plaintext to outPath.
func (e *Encryptor) DecryptFile(path, outPath string) error {
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read encrypted file")
	}
	plaintext, err := e.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, plaintext, 0o600); err != nil {
		return errors.Wrap(err, "failed to write decrypted file")
	}
	return nil
}

// Checksum returns the hex SHA-256 digest of data, used as a document
// integrity checksum.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
