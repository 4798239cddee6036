package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/caret/internal/clipboard"
	"github.com/zjrosen/caret/internal/document"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/tab"
	"github.com/zjrosen/caret/internal/ui/caretview"
	"github.com/zjrosen/caret/internal/watcher"
)

var watchFlag bool

var viewCmd = &cobra.Command{
	Use:   "view FILE",
	Short: "Browse a document with a keyboard caret",
	Long: `View opens FILE in the terminal. Press i to enter caret mode, move with
h/l, w/b/e, j/k, 0/$, {/}, [/], gg/G, select with v and copy with y. Press /
to search and ? for all keys.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		t, err := openTab(args[0], provider)
		if err != nil {
			return err
		}
		defer t.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if watchFlag {
			stop, err := watchDocument(ctx, args[0], t)
			if err != nil {
				return err
			}
			defer stop()
		}

		model := caretview.New(ctx, t, caretview.Options{
			Title:         filepath.Base(args[0]),
			ShowStatusBar: cfg.UI.ShowStatusBar,
			Clipboard:     clipboard.Default(),
			TailLog:       debugFlag,
		})
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("running program: %w", err)
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVar(&watchFlag, "watch", false, "reload the document when the file changes")
	rootCmd.AddCommand(viewCmd)
}

// watchDocument reloads path into t after each burst of changes until ctx is
// done.
func watchDocument(ctx context.Context, path string, t *tab.Tab) (func(), error) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				doc, err := document.Load(path)
				if err != nil {
					log.ErrorErr(log.CatWatcher, "reload failed", err, "path", path)
					continue
				}
				if err := t.Reload(ctx, doc); err != nil {
					log.ErrorErr(log.CatWatcher, "reload failed", err, "path", path)
				}
			}
		}
	}()

	return func() { _ = w.Stop() }, nil
}
