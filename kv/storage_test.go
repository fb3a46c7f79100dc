package kv

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getHeaders := func() *Storage {
		return New().
			Add("Foo", "bar").
			Add("Hello", "World").
			Add("Lorem", "ipsum").
			Add("hello", "Pavlo")
	}

	t.Run("values preserve arrival order", func(t *testing.T) {
		kv := getHeaders()
		require.Equal(t, []string{"World", "Pavlo"}, slices.Collect(kv.Values("HELLO")))
		require.Equal(t, "World", kv.Value("hello"))
		require.Nil(t, slices.Collect(kv.Values("absent")))
	})

	t.Run("get", func(t *testing.T) {
		kv := getHeaders()
		value, found := kv.Get("lorem")
		require.True(t, found)
		require.Equal(t, "ipsum", value)

		_, found = kv.Get("nope")
		require.False(t, found)
		require.Equal(t, "default", kv.ValueOr("nope", "default"))
		require.True(t, kv.Has("FOO"))
		require.False(t, kv.Has("bar"))
	})

	t.Run("pairs", func(t *testing.T) {
		var keys, values []string
		for key, value := range getHeaders().Pairs() {
			keys = append(keys, key)
			values = append(values, value)
		}

		require.Equal(t, []string{"Foo", "Hello", "Lorem", "hello"}, keys)
		require.Equal(t, []string{"bar", "World", "ipsum", "Pavlo"}, values)
	})

	t.Run("clone is independent", func(t *testing.T) {
		kv := getHeaders()
		clone := kv.Clone()
		kv.Clear()
		require.True(t, kv.Empty())
		require.Equal(t, 4, clone.Len())
		require.Equal(t, "bar", clone.Value("foo"))
	})
}
