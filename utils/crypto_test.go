package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACRoundTrip(t *testing.T) {
	key := []byte("secret")
	sig := GenerateHMAC("L1|1|M-001|15.50|1704844800", key)

	assert.Len(t, sig, 64) // hex-encoded SHA-256
	assert.True(t, ValidateHMAC("L1|1|M-001|15.50|1704844800", sig, key))
	assert.False(t, ValidateHMAC("L1|1|M-001|99.99|1704844800", sig, key))
	assert.False(t, ValidateHMAC("L1|1|M-001|15.50|1704844800", sig, []byte("other")))
}

func TestValidateHMACRejectsMalformedSignature(t *testing.T) {
	assert.False(t, ValidateHMAC("data", "not-hex", []byte("secret")))
}

func TestGenerateRandomKey(t *testing.T) {
	a, err := GenerateRandomKey(32)
	require.NoError(t, err)
	b, err := GenerateRandomKey(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(16)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
