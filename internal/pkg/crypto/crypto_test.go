package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("s3cret", ""))
}

func TestCipher(t *testing.T) {
	c, err := NewCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	a, err := c.Encrypt("sk-project")
	require.NoError(t, err)
	b, err := c.Encrypt("sk-project")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "每次加密使用随机 nonce")

	plain, err := c.Decrypt(a)
	require.NoError(t, err)
	assert.Equal(t, "sk-project", plain)

	other, err := NewCipher("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
	_, err = other.Decrypt(a)
	assert.Error(t, err)

	_, err = c.Decrypt("!!not-base64!!")
	assert.Error(t, err)
	_, err = c.Decrypt("YWJj")
	assert.Error(t, err)
}

func TestNewCipherKeyLength(t *testing.T) {
	_, err := NewCipher("short")
	assert.Error(t, err)
}
