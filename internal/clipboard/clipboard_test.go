package clipboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	var m Memory
	require.Equal(t, "", m.Last())

	require.NoError(t, m.WriteAll("one"))
	require.NoError(t, m.WriteAll("two"))
	require.Equal(t, "two", m.Last())
	require.Equal(t, []string{"one", "two"}, m.History())
}

func TestDefault(t *testing.T) {
	w := Default()
	if Supported() {
		require.IsType(t, System{}, w)
	} else {
		require.IsType(t, &Memory{}, w)
	}
}
