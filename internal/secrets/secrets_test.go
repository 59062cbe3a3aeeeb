package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	box := NewBox([32]byte{42})

	sealed, err := box.Seal("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, sealed)
	assert.NotContains(t, sealed, "hunter2")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestSealIsNonDeterministic(t *testing.T) {
	box := NewBox([32]byte{42})
	a, err := box.Seal("hunter2")
	require.NoError(t, err)
	b, err := box.Seal("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "a fresh nonce per seal")
}

func TestEmptyStringPassesThrough(t *testing.T) {
	box := NewBox([32]byte{42})

	sealed, err := box.Seal("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	plain, err := box.Open("")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	box := NewBox([32]byte{42})
	sealed, err := box.Seal("hunter2")
	require.NoError(t, err)

	tampered := []byte(sealed)
	tampered[len(tampered)-5] ^= 'x'
	_, err = box.Open(string(tampered))
	assert.Error(t, err)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	sealed, err := NewBox([32]byte{1}).Seal("hunter2")
	require.NoError(t, err)

	_, err = NewBox([32]byte{2}).Open(sealed)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestOpenRejectsGarbage(t *testing.T) {
	box := NewBox([32]byte{42})

	_, err := box.Open("not base64 !!!")
	assert.Error(t, err)

	_, err = box.Open("c2hvcnQ=") // valid base64, too short for a nonce
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}
