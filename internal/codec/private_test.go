// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func testNonce(counter byte) []byte {
	n := bytes.Repeat([]byte{0x11}, NonceSize)
	n[NonceSize-1] = counter
	return n
}

func TestPrivate_RoundTrip(t *testing.T) {
	key := testKey(0x2A)
	values := []any{
		"CONF_KEY:abcdef",
		int64(99),
		[]any{"x", int64(1)},
		map[string]any{"k": "v"},
		"",
	}
	for i, v := range values {
		token, err := EncodePrivate(v, key, testNonce(byte(i)))
		require.NoError(t, err)
		assert.True(t, IsPrivate(token))

		got, err := DecodePrivate(token, key)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestPrivate_WrongKeyFailsAuthentication(t *testing.T) {
	token, err := EncodePrivate("secret", testKey(1), testNonce(1))
	require.NoError(t, err)

	got, err := DecodePrivate(token, testKey(2))
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Nil(t, got)
}

func TestPrivate_TamperedCiphertextFailsAuthentication(t *testing.T) {
	key := testKey(3)
	token, err := EncodePrivate("secret", key, testNonce(2))
	require.NoError(t, err)

	blob, err := b64.DecodeString(token[len(Marker)+1:])
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0x01
	tampered := Marker + "A" + b64.EncodeToString(blob)

	_, err = DecodePrivate(tampered, key)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestPrivate_NonceIsEmbedded(t *testing.T) {
	key := testKey(4)
	a, err := EncodePrivate("same", key, testNonce(1))
	require.NoError(t, err)
	b, err := EncodePrivate("same", key, testNonce(2))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPrivate_Malformed(t *testing.T) {
	key := testKey(5)
	tests := []string{
		"Uplain",
		"::",
		"::Zabc",
		"::A***",
		"::A" + b64.EncodeToString([]byte("short")),
	}
	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			_, err := DecodePrivate(token, key)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestPrivate_BadKeyAndNonce(t *testing.T) {
	_, err := EncodePrivate("x", []byte("short"), testNonce(1))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = EncodePrivate("x", testKey(1), []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidNonce)
}

func TestSealed_DoesNotLeakToken(t *testing.T) {
	s := Sealed("::Asecret")
	assert.Equal(t, "(encrypted)", s.String())
}
