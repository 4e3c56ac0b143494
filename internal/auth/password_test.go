package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	// Salted hashes must differ between calls
	hash2, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		ok, err := VerifyPassword("secret123", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := VerifyPassword("secret124", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash", func(t *testing.T) {
		_, err := VerifyPassword("secret123", "not-a-phc-string")
		assert.ErrorIs(t, err, ErrInvalidHash)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		_, err := VerifyPassword("secret123", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
		assert.ErrorIs(t, err, ErrInvalidHash)
	})
}
