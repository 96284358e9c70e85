package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574" // "change this password to a secret"

func TestNewCipher_RejectsBadKeys(t *testing.T) {
	_, err := NewCipher("not hex")
	assert.Error(t, err)

	_, err = NewCipher("deadbeef")
	assert.ErrorContains(t, err, "32 bytes")
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	for _, plaintext := range []string{"hunter2", "usuario@booking.com", strings.Repeat("x", 4096)} {
		encrypted, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, encrypted)

		decrypted, err := c.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncrypt_EmptyStaysEmpty(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	encrypted, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, encrypted)

	decrypted, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, decrypted)
}

func TestEncrypt_NoncesAreUnique(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	first, err := c.Encrypt("same secret")
	require.NoError(t, err)
	second, err := c.Encrypt("same secret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDecrypt_RejectsTamperedInput(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	_, err = c.Decrypt("%%%")
	assert.Error(t, err)

	_, err = c.Decrypt("c2hvcnQ=") // valid base64, shorter than a nonce
	assert.ErrorContains(t, err, "nonce")

	encrypted, err := c.Encrypt("secret")
	require.NoError(t, err)
	tampered := encrypted[:len(encrypted)-4] + "AAA="
	_, err = c.Decrypt(tampered)
	assert.Error(t, err)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	c1, err := NewCipher(testKey)
	require.NoError(t, err)
	c2, err := NewCipher(strings.Repeat("ab", 32))
	require.NoError(t, err)

	encrypted, err := c1.Encrypt("secret")
	require.NoError(t, err)
	_, err = c2.Decrypt(encrypted)
	assert.Error(t, err)
}
