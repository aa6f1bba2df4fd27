package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T) *Encryptor {
	t.Helper()
	enc, err := NewEncryptor("test-passphrase", "test-salt")
	require.NoError(t, err)
	return enc
}

func TestNewEncryptor(t *testing.T) {
	t.Run("requires passphrase", func(t *testing.T) {
		_, err := NewEncryptor("", "salt")
		require.Error(t, err)
	})

	t.Run("same passphrase and salt decrypts across instances", func(t *testing.T) {
		first, err := NewEncryptor("pass", "salt")
		require.NoError(t, err)
		second, err := NewEncryptor("pass", "salt")
		require.NoError(t, err)

		ciphertext, err := first.Encrypt([]byte("patient record"))
		require.NoError(t, err)

		plaintext, err := second.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, "patient record", string(plaintext))
	})

	t.Run("different passphrase cannot decrypt", func(t *testing.T) {
		first, err := NewEncryptor("pass", "salt")
		require.NoError(t, err)
		other, err := NewEncryptor("other", "salt")
		require.NoError(t, err)

		ciphertext, err := first.Encrypt([]byte("secret"))
		require.NoError(t, err)

		_, err = other.Decrypt(ciphertext)
		require.Error(t, err)
	})
}

func TestEncryptString(t *testing.T) {
	enc := newTestEncryptor(t)

	t.Run("round trip", func(t *testing.T) {
		ciphertext, err := enc.EncryptString("confidential note")
		require.NoError(t, err)
		assert.NotEqual(t, "confidential note", ciphertext)

		plaintext, err := enc.DecryptString(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, "confidential note", plaintext)
	})

	t.Run("empty string passes through", func(t *testing.T) {
		out, err := enc.EncryptString("")
		require.NoError(t, err)
		assert.Equal(t, "", out)

		out, err = enc.DecryptString("")
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})

	t.Run("nonces make output nondeterministic", func(t *testing.T) {
		first, err := enc.EncryptString("same input")
		require.NoError(t, err)
		second, err := enc.EncryptString("same input")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("tampered ciphertext rejected", func(t *testing.T) {
		_, err := enc.DecryptString("bm90IHJlYWwgY2lwaGVydGV4dA==")
		require.Error(t, err)
	})
}

func TestEncryptFile(t *testing.T) {
	enc := newTestEncryptor(t)
	dir := t.TempDir()

	original := filepath.Join(dir, "document.pdf")
	encrypted := filepath.Join(dir, "document.pdf.enc")
	decrypted := filepath.Join(dir, "document_out.pdf")

	content := []byte("document body with PHI")
	require.NoError(t, os.WriteFile(original, content, 0o600))

	require.NoError(t, enc.EncryptFile(original, encrypted))

	onDisk, err := os.ReadFile(encrypted)
	require.NoError(t, err)
	assert.NotEqual(t, content, onDisk)

	require.NoError(t, enc.DecryptFile(encrypted, decrypted))

	restored, err := os.ReadFile(decrypted)
	require.NoError(t, err)
	assert.Equal(t, content, restored)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Checksum(nil))
	assert.Equal(t, Checksum([]byte("abc")), Checksum([]byte("abc")))
	assert.NotEqual(t, Checksum([]byte("abc")), Checksum([]byte("abd")))
	assert.Len(t, Checksum([]byte("abc")), 64)
}
