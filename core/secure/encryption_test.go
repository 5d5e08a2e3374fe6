package secure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "VibeSync2025SecureKey1234567890X"

func TestKeyLength(t *testing.T) {
	_, err := NewCipher("too-short")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewCipher(testKey)
	assert.NoError(t, err)
}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	payload := map[string]interface{}{
		"success":  true,
		"roomCode": "ABC123",
	}
	plaintext, err := json.Marshal(payload)
	require.NoError(t, err)

	env, err := c.EncryptJSON(plaintext)
	require.NoError(t, err)
	assert.True(t, env.Encrypted)
	assert.Equal(t, "AES-256-CBC", env.Algorithm)
	assert.Equal(t, "base64", env.Encoding)
	assert.NotEmpty(t, env.Data)
	assert.NotEmpty(t, env.IV)

	var decoded map[string]interface{}
	require.NoError(t, c.DecryptJSON(env, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "ABC123", decoded["roomCode"])
}

func TestIVIsRandom(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	env1, err := c.EncryptJSON([]byte(`{"a":1}`))
	require.NoError(t, err)
	env2, err := c.EncryptJSON([]byte(`{"a":1}`))
	require.NoError(t, err)

	// 同样的明文每次IV和密文都不同
	assert.NotEqual(t, env1.IV, env2.IV)
	assert.NotEqual(t, env1.Data, env2.Data)
}

func TestDecryptRejectsTampered(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	env, err := c.EncryptJSON([]byte(`{"a":1}`))
	require.NoError(t, err)

	env.Data = "not-base64!!!"
	var out map[string]interface{}
	assert.Error(t, c.DecryptJSON(env, &out))
}
