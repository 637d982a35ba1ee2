package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	a := RandomString(48)
	b := RandomString(48)
	assert.Len(t, a, 48)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[a-zA-Z0-9]+$`, a)
	assert.Regexp(t, `^[0-9]{6}$`, RandomNumbers(6))
}

func TestEncryptTextSHA512(t *testing.T) {
	h := EncryptTextSHA512("token")
	assert.Len(t, h, 128)
	assert.Equal(t, h, EncryptTextSHA512("token"))
	assert.NotEqual(t, h, EncryptTextSHA512("token2"))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("senha12345", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "senha12345", hash)
	assert.True(t, CheckPasswordHash(hash, "senha12345"))
	assert.False(t, CheckPasswordHash(hash, "senha123456"))
	assert.False(t, CheckPasswordHash("não-é-bcrypt", "senha12345"))
}
