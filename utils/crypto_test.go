package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	sealed, err := SealSecret("1//refresh-token-value")
	require.NoError(t, err)
	require.NotEmpty(t, sealed)
	assert.NotContains(t, sealed, "refresh-token-value")

	opened, err := OpenSecret(sealed)
	require.NoError(t, err)
	assert.Equal(t, "1//refresh-token-value", opened)
}

func TestSealProducesUniqueBlobs(t *testing.T) {
	a, err := SealSecret("same-secret")
	require.NoError(t, err)
	b, err := SealSecret("same-secret")
	require.NoError(t, err)

	// Fresh nonce per seal.
	assert.NotEqual(t, a, b)
}

func TestOpenSecretRejectsBadInput(t *testing.T) {
	_, err := OpenSecret("%%%not-base64%%%")
	assert.Error(t, err)

	_, err = OpenSecret("c2hvcnQ=")
	assert.Error(t, err)

	sealed, err := SealSecret("value")
	require.NoError(t, err)
	tampered := "A" + sealed[1:]
	if tampered == sealed {
		tampered = "B" + sealed[1:]
	}
	_, err = OpenSecret(tampered)
	assert.Error(t, err)
}
