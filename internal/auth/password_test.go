package auth

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	h, err := HashPassword("Passw0rd!")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("Passw0rd!", h))
	assert.False(t, VerifyPassword("passw0rd!", h))
	assert.False(t, VerifyPassword("", h))
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("Passw0rd!")
	require.NoError(t, err)
	h2, err := HashPassword("Passw0rd!")
	require.NoError(t, err)

	assert.False(t, bytes.Equal(h1, h2), "two hashes of one password must differ")
	assert.True(t, VerifyPassword("Passw0rd!", h1))
	assert.True(t, VerifyPassword("Passw0rd!", h2))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.False(t, VerifyPassword("Passw0rd!", nil))
		assert.False(t, VerifyPassword("Passw0rd!", []byte("not-a-bcrypt-hash")))
		assert.False(t, VerifyPassword("Passw0rd!", []byte("$2a$10$short")))
	})
}

func TestBurnVerify(t *testing.T) {
	assert.False(t, BurnVerify("visco-dummy-password"))
}
