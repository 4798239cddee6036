package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"next char", km.NextChar, []string{"l", "right"}},
		{"prev word", km.PrevWord, []string{"b"}},
		{"end of line", km.EndOfLine, []string{"$", "end"}},
		{"next block", km.StartOfNextBlock, []string{"}"}},
		{"document end", km.EndOfDocument, []string{"G"}},
		{"toggle selection", km.ToggleSelection, []string{"v", " "}},
		{"drop selection", km.DropSelection, []string{"esc"}},
		{"prev match", km.PrevResult, []string{"N"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
			require.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestMotions_HaveUniqueKeys(t *testing.T) {
	seen := map[string]string{}
	for _, m := range DefaultKeyMap().Motions() {
		require.NotEmpty(t, m.Command)
		for _, k := range m.Binding.Keys() {
			prev, dup := seen[k]
			require.False(t, dup, "key %q bound to %s and %s", k, prev, m.Command)
			seen[k] = m.Command
		}
	}
}

func TestFullHelp_CoversShortHelp(t *testing.T) {
	km := DefaultKeyMap()
	var all []string
	for _, col := range km.FullHelp() {
		for _, b := range col {
			all = append(all, b.Help().Key)
		}
	}
	for _, b := range km.ShortHelp() {
		require.Contains(t, all, b.Help().Key)
	}
}
