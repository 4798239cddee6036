package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/caret/internal/caret"
	"github.com/zjrosen/caret/internal/clipboard"
	"github.com/zjrosen/caret/internal/config"
	"github.com/zjrosen/caret/internal/document"
	"github.com/zjrosen/caret/internal/tab"
)

const fixtureText = "one two three\neins zwei drei\n\nfour five six\nvier fünf sechs"

func newTestRunner(t *testing.T) (*runner, *bytes.Buffer, *clipboard.Memory) {
	t.Helper()
	tb := tab.New(document.ParseText(fixtureText), config.Defaults())
	t.Cleanup(tb.Close)
	out := &bytes.Buffer{}
	clip := &clipboard.Memory{}
	return &runner{tab: tb, out: out, clip: clip}, out, clip
}

func TestRunner_Scripts(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name: "select first word",
			script: `enter
toggle-selection
move-to-end-of-word
selection`,
			want: "one\n",
		},
		{
			name: "counts and comments",
			script: `# two words in
enter

move-to-next-word 2
toggle-selection
move-to-end-of-line
selection`,
			want: "three\n",
		},
		{
			name: "blocks",
			script: `enter
move-to-end-of-next-block 2
toggle-selection
move-to-start-of-prev-block
selection`,
			want: "eins zwei drei\n\nfour five six\n",
		},
		{
			name: "search then re-enter",
			script: `enter
leave
search fiv
enter
move-to-end-of-line
selection`,
			want: "five six\n",
		},
		{
			name: "search in caret mode",
			script: `enter
search w
next-result
move-to-end-of-line
selection`,
			want: "wei drei\n",
		},
		{
			name: "miss is reported",
			script: `search nowhere
enter
selection`,
			want: "no match for \"nowhere\"\n\n",
		},
		{
			name: "drop",
			script: `enter
toggle-selection
move-to-end-of-document
drop-selection
selection`,
			want: "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, _ := newTestRunner(t)
			require.NoError(t, r.runAll(context.Background(), strings.Split(tt.script, "\n")))
			require.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunner_Yank(t *testing.T) {
	r, _, clip := newTestRunner(t)
	err := r.runAll(context.Background(), []string{
		"enter", "toggle-selection", "move-to-end-of-word", "yank",
	})
	require.NoError(t, err)
	require.Equal(t, "one", clip.Last())
}

func TestRunner_Width(t *testing.T) {
	r, _, _ := newTestRunner(t)
	require.NoError(t, r.runAll(context.Background(), []string{"width 5"}))

	snap, err := r.tab.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, snap.Layout.Width)

	require.Error(t, r.runAll(context.Background(), []string{"width zero"}))
}

func TestRunner_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script []string
		is     error
		msg    string
	}{
		{name: "unknown command", script: []string{"enter", "fly"}, is: caret.ErrUnknownCommand, msg: `command 2 "fly"`},
		{name: "unknown outside caret mode", script: []string{"fly"}, is: caret.ErrUnknownCommand},
		{name: "motion outside caret mode", script: []string{"move-to-next-word"}, is: caret.ErrNotActive},
		{name: "selection outside caret mode", script: []string{"selection"}, is: caret.ErrNotActive},
		{name: "bad count", script: []string{"enter", "move-to-next-word two"}, msg: "invalid count"},
		{name: "empty search", script: []string{"search"}, msg: "needs a query"},
		{name: "yank nothing", script: []string{"enter", "yank"}, is: caret.ErrEmptySelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRunner(t)
			err := r.runAll(context.Background(), tt.script)
			require.Error(t, err)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				require.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestRunner_StopsAtFirstError(t *testing.T) {
	r, out, _ := newTestRunner(t)
	err := r.runAll(context.Background(), []string{"selection", "enter", "selection"})
	require.ErrorIs(t, err, caret.ErrNotActive)
	require.Empty(t, out.String())
}

func TestScriptLines(t *testing.T) {
	t.Cleanup(func() {
		scriptFiles = nil
		inlineCmds = nil
	})

	stdin := strings.NewReader("enter\nselection\n")
	lines, err := scriptLines(stdin)
	require.NoError(t, err)
	require.Equal(t, []string{"enter", "selection"}, lines)

	path := filepath.Join(t.TempDir(), "script.txt")
	require.NoError(t, os.WriteFile(path, []byte("enter\ntoggle-selection\n"), 0o600))
	scriptFiles = []string{path}
	inlineCmds = []string{"selection"}

	lines, err = scriptLines(stdin)
	require.NoError(t, err)
	require.Equal(t, []string{"enter", "toggle-selection", "selection"}, lines)

	scriptFiles = []string{filepath.Join(t.TempDir(), "missing.txt")}
	_, err = scriptLines(stdin)
	require.Error(t, err)
}
