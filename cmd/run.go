package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/caret/internal/caret"
	"github.com/zjrosen/caret/internal/clipboard"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/tab"
)

var (
	scriptFiles []string
	inlineCmds  []string
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run caret commands against a document",
	Long: `Run executes caret commands against FILE, one per line, and stops at the
first error. Commands come from --script files and -e flags in order, or from
stdin when neither is given. Blank lines and lines starting with # are skipped.

Commands:
  enter | leave               enter or leave caret mode
  search QUERY                find QUERY from the selection start
  next-result | prev-result   repeat the last search
  selection                   print the selected text
  yank                        copy the selection to the clipboard
  width N                     change the viewport width
  NAME [COUNT]                any caret command, e.g. move-to-next-word 2

Examples:
  caret run notes.md -e enter -e toggle-selection -e move-to-end-of-line -e selection
  caret run page.html --script select-heading.txt`,
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

		lines, err := scriptLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
		r := &runner{tab: t, out: cmd.OutOrStdout(), clip: clipboard.Default()}
		return r.runAll(cmd.Context(), lines)
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&scriptFiles, "script", "s", nil,
		"file of commands, one per line (repeatable)")
	runCmd.Flags().StringArrayVarP(&inlineCmds, "exec", "e", nil,
		"a single command (repeatable)")
	rootCmd.AddCommand(runCmd)
}

// scriptLines collects the commands from --script and -e, falling back to
// stdin.
func scriptLines(stdin io.Reader) ([]string, error) {
	if len(scriptFiles) == 0 && len(inlineCmds) == 0 {
		return readLines(stdin)
	}
	var lines []string
	for _, path := range scriptFiles {
		f, err := os.Open(path) //nolint:gosec // G304: script path given by the user
		if err != nil {
			return nil, fmt.Errorf("opening script: %w", err)
		}
		got, err := readLines(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading script %s: %w", path, err)
		}
		lines = append(lines, got...)
	}
	return append(lines, inlineCmds...), nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// runner executes script commands against one tab.
type runner struct {
	tab  *tab.Tab
	out  io.Writer
	clip clipboard.Writer
}

func (r *runner) runAll(ctx context.Context, lines []string) error {
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.exec(ctx, line); err != nil {
			return fmt.Errorf("command %d %q: %w", i+1, line, err)
		}
	}
	return nil
}

func (r *runner) exec(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	log.Debug(log.CatCaret, "script command", "name", name, "args", rest)

	switch name {
	case "enter":
		return r.tab.EnterCaretMode(ctx)
	case "leave":
		return r.tab.LeaveCaretMode(ctx)
	case "search":
		if rest == "" {
			return errors.New("search needs a query")
		}
		return r.search(ctx, rest, func(ctx context.Context) (bool, error) {
			return r.tab.Search().Search(ctx, rest)
		})
	case "next-result":
		return r.search(ctx, r.tab.Search().Query(), r.tab.Search().NextResult)
	case "prev-result":
		return r.search(ctx, r.tab.Search().Query(), r.tab.Search().PrevResult)
	case "selection":
		k, err := r.tab.Caret()
		if err != nil {
			return err
		}
		text, err := k.Selection(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.out, text)
		return err
	case "yank":
		k, err := r.tab.Caret()
		if err != nil {
			return err
		}
		return k.Yank(ctx, r.clip)
	case "width":
		width, err := strconv.Atoi(rest)
		if err != nil || width < 1 {
			return fmt.Errorf("invalid width %q", rest)
		}
		return r.tab.Resize(ctx, width)
	}

	count := 1
	if rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("invalid count %q", rest)
		}
		count = n
	}
	k, err := r.tab.Caret()
	if err != nil {
		if _, known := caret.Lookup(name); !known {
			return fmt.Errorf("%w: %s", caret.ErrUnknownCommand, name)
		}
		return err
	}
	return caret.Run(ctx, k, name, count)
}

// search runs op and, in caret mode, hands a match to the caret. A miss is
// reported but is not an error.
func (r *runner) search(ctx context.Context, query string, op func(context.Context) (bool, error)) error {
	found, err := op(ctx)
	if err != nil {
		return err
	}
	if !found {
		_, err := fmt.Fprintf(r.out, "no match for %q\n", query)
		return err
	}
	return r.tab.SyncCaret(ctx)
}
