package crypto

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	secret := []byte("0123456789abcdef0123456789abcdef")
	codec, err := NewCodec(secret)
	require.NoError(t, err)
	return codec
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	_, err := NewCodec([]byte("too-short"))
	require.ErrorIs(t, err, ErrInvalidMasterSecret)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	codec := testCodec(t)
	userID := uuid.New()

	plaintexts := []string{
		"a short prompt",
		"",
		"multi\nline\ncontent with 中文 punctuation，。！",
	}
	for _, plaintext := range plaintexts {
		ciphertext, err := codec.Encrypt(userID, plaintext)
		require.NoError(t, err)
		assert.True(t, IsEncrypted(ciphertext))
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := codec.Decrypt(userID, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestDecryptWithDifferentUserFails(t *testing.T) {
	codec := testCodec(t)
	ciphertext, err := codec.Encrypt(uuid.New(), "secret template")
	require.NoError(t, err)

	_, err = codec.Decrypt(uuid.New(), ciphertext)
	require.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecryptPlaintextReturnsNotEncrypted(t *testing.T) {
	codec := testCodec(t)
	_, err := codec.Decrypt(uuid.New(), "just ordinary text")
	require.ErrorIs(t, err, ErrNotEncrypted)
}

func TestDecryptMalformedBase64(t *testing.T) {
	codec := testCodec(t)
	_, err := codec.Decrypt(uuid.New(), CiphertextPrefix+"%%%not-base64%%%")
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestKeyForIsDeterministicPerUser(t *testing.T) {
	codec := testCodec(t)
	alice := uuid.New()
	bob := uuid.New()

	assert.Equal(t, codec.KeyFor(alice), codec.KeyFor(alice))
	assert.NotEqual(t, codec.KeyFor(alice), codec.KeyFor(bob))
}

func TestDecryptNestedRecoversUpToThreeLayers(t *testing.T) {
	codec := testCodec(t)
	userID := uuid.New()
	plaintext := "the original template body"

	for layers := 1; layers <= 3; layers++ {
		value := plaintext
		for i := 0; i < layers; i++ {
			var err error
			value, err = codec.Encrypt(userID, value)
			require.NoError(t, err)
		}

		resolved, err := codec.DecryptNested(userID, value)
		require.NoError(t, err, "layers=%d", layers)
		assert.Equal(t, plaintext, resolved, "layers=%d", layers)
	}
}

func TestDecryptNestedBeyondBoundReturnsResidual(t *testing.T) {
	codec := testCodec(t)
	userID := uuid.New()

	value := "buried too deep"
	for i := 0; i < 4; i++ {
		var err error
		value, err = codec.Encrypt(userID, value)
		require.NoError(t, err)
	}

	resolved, err := codec.DecryptNested(userID, value)
	require.NoError(t, err)
	// One layer of ciphertext remains; that is the documented degraded case.
	assert.True(t, IsEncrypted(resolved))
}

func TestDecryptNestedPlaintextPassesThrough(t *testing.T) {
	codec := testCodec(t)
	resolved, err := codec.DecryptNested(uuid.New(), "already plaintext")
	require.NoError(t, err)
	assert.Equal(t, "already plaintext", resolved)
}

func TestDecryptNestedWrongKeyReturnsBestEffort(t *testing.T) {
	codec := testCodec(t)
	ciphertext, err := codec.Encrypt(uuid.New(), "not yours")
	require.NoError(t, err)

	resolved, err := codec.DecryptNested(uuid.New(), ciphertext)
	require.ErrorIs(t, err, ErrDecryptFailed)
	assert.Equal(t, ciphertext, resolved)
	assert.True(t, strings.HasPrefix(resolved, CiphertextPrefix))
}
