package crypto

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, keySize)
}

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher(testKey(7))
	require.NoError(t, err)

	for _, plain := range []string{"", "hunter2", "pässwörd with ünïcode"} {
		enc, err := c.Encrypt(plain)
		require.NoError(t, err)

		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		require.Equal(t, plain, dec)
	}
}

func TestCipher_NonceIsRandom(t *testing.T) {
	c, err := NewCipher(testKey(1))
	require.NoError(t, err)

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	require.Len(t, raw, 12+len("same")+16)
}

func TestCipher_RejectsTampering(t *testing.T) {
	c, err := NewCipher(testKey(2))
	require.NoError(t, err)

	enc, err := c.Encrypt("secret")
	require.NoError(t, err)

	raw, _ := base64.StdEncoding.DecodeString(enc)
	raw[len(raw)-1] ^= 0xff
	_, err = c.Decrypt(base64.StdEncoding.EncodeToString(raw))
	require.Error(t, err)

	other, err := NewCipher(testKey(3))
	require.NoError(t, err)
	_, err = other.Decrypt(enc)
	require.Error(t, err)

	_, err = c.Decrypt("%%%")
	require.Error(t, err)

	_, err = c.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
}

func TestNewCipher_KeyLength(t *testing.T) {
	_, err := NewCipher(make([]byte, 16))
	require.Error(t, err)
}
