package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClasses(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		for _, c := range []byte("Content-Length_!#$%&'*+.^`|~09azAZ") {
			require.True(t, IsToken(c), string(c))
		}

		for _, c := range []byte(" \t:;,\"()/<=>?@[\\]{}\x00\x7f\xff") {
			require.False(t, IsToken(c), c)
		}
	})

	t.Run("url", func(t *testing.T) {
		require.True(t, IsURL('/'))
		require.True(t, IsURL('?'))
		require.True(t, IsURL(0x80))
		require.False(t, IsURL(' '))
		require.False(t, IsURL('\r'))
		require.False(t, IsURL(0x7f))
	})

	t.Run("value", func(t *testing.T) {
		require.True(t, IsValue(' '))
		require.True(t, IsValue('\t'))
		require.True(t, IsValue(0xfe))
		require.False(t, IsValue('\x01'))
		require.False(t, IsValue('\r'))
		require.True(t, IsLenientValue('\x01'))
		require.False(t, IsLenientValue('\n'))
		require.False(t, IsLenientValue(0))
	})

	t.Run("digits", func(t *testing.T) {
		for c := 0; c < 256; c++ {
			require.Equal(t, c >= '0' && c <= '9', IsDigit(byte(c)))
		}
	})
}

func TestUnhex(t *testing.T) {
	var result uint64
	for _, c := range []byte("DEADbeef") {
		result = result<<4 | uint64(Unhex(c))
	}

	require.Equal(t, uint64(0xdeadbeef), result)
	require.Equal(t, byte(0xFF), Unhex('g'))
	require.Equal(t, byte(0xFF), Unhex(' '))

	for c := 0; c < 256; c++ {
		require.Equal(t, strings.ContainsRune("0123456789abcdefABCDEF", rune(c)), Unhex(byte(c)) != 0xFF)
	}
}
