package tab

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/caret/internal/caret"
	"github.com/zjrosen/caret/internal/config"
	"github.com/zjrosen/caret/internal/document"
	"github.com/zjrosen/caret/internal/mode"
	"github.com/zjrosen/caret/internal/pubsub"
)

const fixtureText = "one two three\neins zwei drei\n\nfour five six\nvier fünf sechs"

func newTestTab(t *testing.T) *Tab {
	t.Helper()
	tb := New(document.ParseText(fixtureText), config.Defaults())
	t.Cleanup(tb.Close)
	return tb
}

func TestTab_CaretNeedsCaretMode(t *testing.T) {
	tb := newTestTab(t)
	_, err := tb.Caret()
	require.ErrorIs(t, err, caret.ErrNotActive)

	require.NoError(t, tb.EnterCaretMode(context.Background()))
	require.Equal(t, mode.Caret, tb.Modes().Current())
	k, err := tb.Caret()
	require.NoError(t, err)

	require.NoError(t, tb.Modes().Enter(context.Background(), mode.Insert))
	require.ErrorIs(t, k.MoveToNextChar(context.Background(), 1), caret.ErrNotActive,
		"entering another mode leaves caret mode")
}

func TestTab_YankingASearchedLine(t *testing.T) {
	tests := []struct {
		name  string
		query string
		next  int
		want  string
	}{
		{name: "single match", query: "fiv", want: "five six"},
		{name: "multiple matches", query: "w", next: 1, want: "wei drei"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestTab(t)
			ctx := context.Background()
			require.NoError(t, tb.EnterCaretMode(ctx))
			require.NoError(t, tb.LeaveCaretMode(ctx))

			found, err := tb.Search().Search(ctx, tt.query)
			require.NoError(t, err)
			require.True(t, found)
			for range tt.next {
				found, err = tb.Search().NextResult(ctx)
				require.NoError(t, err)
				require.True(t, found)
			}

			require.NoError(t, tb.EnterCaretMode(ctx))
			k, err := tb.Caret()
			require.NoError(t, err)
			require.NoError(t, k.MoveToEndOfLine(ctx, 1))
			text, err := k.Selection(ctx)
			require.NoError(t, err)
			require.Equal(t, tt.want, text)
		})
	}
}

func TestTab_Reload(t *testing.T) {
	tb := newTestTab(t)
	ctx := context.Background()
	loads, cancel := context.WithCancel(ctx)
	defer cancel()
	events := tb.SubscribeLoads(loads)

	require.NoError(t, tb.EnterCaretMode(ctx))
	k, err := tb.Caret()
	require.NoError(t, err)
	require.NoError(t, k.MoveToEndOfDocument(ctx, 1))

	require.NoError(t, tb.Reload(ctx, document.ParseText("tiny")))
	pos, err := k.Position(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, pos)

	select {
	case ev := <-events:
		require.Equal(t, pubsub.DocumentLoadedEvent, ev.Type)
		require.Equal(t, Loaded{Revision: 1, Graphemes: 4}, ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("no load event")
	}
}

func TestTab_ResizeAndSnapshot(t *testing.T) {
	tb := newTestTab(t)
	ctx := context.Background()

	snap, err := tb.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Layout.Lines, 5)

	require.NoError(t, tb.Resize(ctx, 6))
	snap, err = tb.Snapshot(ctx)
	require.NoError(t, err)
	require.Greater(t, len(snap.Layout.Lines), 5)
	require.Equal(t, 6, snap.Layout.Width)
}

func TestTab_ResizeWaitsForRunningCommand(t *testing.T) {
	tb := newTestTab(t)
	ctx := context.Background()

	before, err := tb.Snapshot(ctx)
	require.NoError(t, err)

	release, err := tb.Engine().Token().Acquire(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- tb.Resize(ctx, 6) }()

	require.Never(t, func() bool { return len(done) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"resize must wait for the token holder")
	snap, err := tb.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, before.Layout.Width, snap.Layout.Width)

	release()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("resize did not finish")
	}
	snap, err = tb.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, snap.Layout.Width)
}

func TestTab_SyncCaretAdoptsSearchMatch(t *testing.T) {
	tb := newTestTab(t)
	ctx := context.Background()
	require.NoError(t, tb.SyncCaret(ctx), "no-op outside caret mode")

	require.NoError(t, tb.EnterCaretMode(ctx))
	found, err := tb.Search().Search(ctx, "zwei")
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, tb.SyncCaret(ctx))
	k, err := tb.Caret()
	require.NoError(t, err)
	require.True(t, k.Selecting())
	text, err := k.Selection(ctx)
	require.NoError(t, err)
	require.Equal(t, "zwei", text)
}
