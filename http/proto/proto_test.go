package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFamily(t *testing.T) {
	for _, f := range []Family{HTTP, RTSP, ICE} {
		require.Equal(t, f, ParseFamily(f.String()))
		require.LessOrEqual(t, len(f.String()), MaxFamilyLength)
	}

	require.Equal(t, Unknown, ParseFamily("http"))
	require.Equal(t, Unknown, ParseFamily("HTTPS"))
	require.Empty(t, Family(42).String())
}

func TestVersion(t *testing.T) {
	for _, v := range []Version{HTTP09, HTTP10, HTTP11, HTTP20} {
		require.True(t, v.Known(), v.String())
	}

	require.False(t, Version{1, 2}.Known())
	require.False(t, Version{3, 0}.Known())

	require.False(t, HTTP09.PersistentByDefault())
	require.False(t, HTTP10.PersistentByDefault())
	require.True(t, HTTP11.PersistentByDefault())
	require.True(t, HTTP20.PersistentByDefault())

	require.Equal(t, "1.1", HTTP11.String())
	require.Empty(t, Version{10, 0}.String())
}
