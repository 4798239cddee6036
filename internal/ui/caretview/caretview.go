// Package caretview is the interactive terminal front end for caret mode. It
// renders the engine's visual lines with the caret and selection on top and
// binds keys to caret, selection and search commands.
package caretview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/caret/internal/caret"
	"github.com/zjrosen/caret/internal/clipboard"
	"github.com/zjrosen/caret/internal/engine"
	"github.com/zjrosen/caret/internal/keys"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/mode"
	"github.com/zjrosen/caret/internal/pubsub"
	"github.com/zjrosen/caret/internal/search"
	"github.com/zjrosen/caret/internal/tab"
	"github.com/zjrosen/caret/internal/ui/styles"
	"github.com/zjrosen/caret/internal/ui/toaster"
)

// Options configures the viewer.
type Options struct {
	Title         string
	ShowStatusBar bool
	Clipboard     clipboard.Writer
	// TailLog shows the latest debug log entry in the status bar.
	TailLog bool
}

// Model is the bubbletea model of the viewer.
type Model struct {
	ctx  context.Context
	tab  *tab.Tab
	keys keys.KeyMap
	opts Options

	width  int
	height int
	top    int

	snap  engine.Snapshot
	mode  mode.KeyMode
	state caret.SelectionState
	err   error

	count    int
	pendingG bool

	searching bool
	input     textinput.Model
	help      help.Model
	toast     toaster.Model
	lastLog   string

	selections *pubsub.Listener[caret.SelectionState]
	modes      *pubsub.Listener[mode.Transition]
	results    *pubsub.Listener[search.Result]
	loads      <-chan pubsub.Event[tab.Loaded]
	logs       <-chan pubsub.Event[string]
}

// New creates a viewer over t. Subscriptions live as long as ctx.
func New(ctx context.Context, t *tab.Tab, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.Default()
	}
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "search"

	m := Model{
		ctx:        ctx,
		tab:        t,
		keys:       keys.DefaultKeyMap(),
		opts:       opts,
		input:      input,
		help:       help.New(),
		toast:      toaster.New(),
		selections: pubsub.NewListener[caret.SelectionState](ctx, t.CaretController()),
		modes:      pubsub.NewListener[mode.Transition](ctx, t.Modes()),
		results:    pubsub.NewListener[search.Result](ctx, t.Search()),
		loads:      t.SubscribeLoads(ctx),
	}
	if opts.TailLog {
		m.logs = log.Entries(ctx)
	}
	return m.refresh()
}

// Init starts listening for state changes.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.selections.Listen(),
		m.modes.Listen(),
		m.results.Listen(),
		pubsub.ListenCmd(m.ctx, m.loads),
	}
	if m.logs != nil {
		cmds = append(cmds, pubsub.ListenCmd(m.ctx, m.logs))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-2, 1)
		if err := m.tab.Resize(m.ctx, msg.Width); err != nil {
			return m.fail(err)
		}
		return m.refresh(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case toaster.DismissMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case pubsub.Event[caret.SelectionState]:
		m.state = msg.Payload
		return m, m.selections.Listen()

	case pubsub.Event[mode.Transition]:
		m.mode = msg.Payload.To
		return m.refresh(), m.modes.Listen()

	case pubsub.Event[tab.Loaded]:
		next, cmd := m.refresh().notify(fmt.Sprintf("reloaded (%d graphemes)", msg.Payload.Graphemes), toaster.StyleInfo)
		return next, tea.Batch(cmd, pubsub.ListenCmd(m.ctx, m.loads))

	case pubsub.Event[search.Result]:
		return m.refresh(), m.results.Listen()

	case pubsub.Event[string]:
		m.lastLog = msg.Payload
		return m, pubsub.ListenCmd(m.ctx, m.logs)
	}

	if m.searching {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.NextResult):
		return m.runSearch(m.tab.Search().NextResult)
	case key.Matches(msg, m.keys.PrevResult):
		return m.runSearch(m.tab.Search().PrevResult)
	case key.Matches(msg, m.keys.ToggleCaret):
		return m.toggleCaretMode()
	}

	if m.mode != mode.Caret {
		return m, nil
	}

	if digit, ok := countDigit(msg.String(), m.count); ok {
		m.count = m.count*10 + digit
		return m, nil
	}
	count := max(m.count, 1)
	m.count = 0

	if key.Matches(msg, m.keys.StartOfDocument) {
		if !m.pendingG {
			m.pendingG = true
			return m, nil
		}
		m.pendingG = false
		return m.runCommand("move-to-start-of-document", count)
	}
	m.pendingG = false

	if key.Matches(msg, m.keys.Yank) {
		return m.yank()
	}
	for _, motion := range m.keys.Motions() {
		if key.Matches(msg, motion.Binding) {
			return m.runCommand(motion.Command, count)
		}
	}
	return m, nil
}

// countDigit reports whether s continues a count prefix. A leading 0 is the
// start-of-line motion, not a count.
func countDigit(s string, count int) (int, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	if s[0] == '0' && count == 0 {
		return 0, false
	}
	return int(s[0] - '0'), true
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		query := m.input.Value()
		if query == "" {
			return m, nil
		}
		return m.runSearch(func(ctx context.Context) (bool, error) {
			return m.tab.Search().Search(ctx, query)
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) runSearch(op func(context.Context) (bool, error)) (tea.Model, tea.Cmd) {
	found, err := op(m.ctx)
	if err != nil {
		return m.fail(err)
	}
	if !found {
		return m.refresh().notify("not found: "+m.tab.Search().Query(), toaster.StyleWarn)
	}
	if err := m.tab.SyncCaret(m.ctx); err != nil {
		return m.fail(err)
	}
	return m.refresh(), nil
}

func (m Model) toggleCaretMode() (tea.Model, tea.Cmd) {
	var err error
	if m.tab.Modes().Current() == mode.Caret {
		err = m.tab.LeaveCaretMode(m.ctx)
	} else {
		err = m.tab.EnterCaretMode(m.ctx)
	}
	if err != nil {
		return m.fail(err)
	}
	return m.refresh(), nil
}

func (m Model) runCommand(name string, count int) (tea.Model, tea.Cmd) {
	k, err := m.tab.Caret()
	if err != nil {
		return m.fail(err)
	}
	if err := caret.Run(m.ctx, k, name, count); err != nil {
		return m.fail(err)
	}
	return m.refresh(), nil
}

func (m Model) yank() (tea.Model, tea.Cmd) {
	k, err := m.tab.Caret()
	if err != nil {
		return m.fail(err)
	}
	if err := k.Yank(m.ctx, m.opts.Clipboard); err != nil {
		if errors.Is(err, caret.ErrEmptySelection) {
			return m.notify("nothing selected", toaster.StyleWarn)
		}
		return m.fail(err)
	}
	return m.refresh().notify("yanked selection", toaster.StyleSuccess)
}

func (m Model) notify(message string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toast, cmd = m.toast.Show(message, style)
	return m, cmd
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	log.ErrorErr(log.CatUI, "command failed", err)
	m.err = err
	return m.notify(err.Error(), toaster.StyleError)
}

// refresh pulls a fresh snapshot and keeps the caret row on screen.
func (m Model) refresh() Model {
	snap, err := m.tab.Snapshot(m.ctx)
	if err != nil {
		m.err = err
		return m
	}
	m.snap = snap
	m.mode = m.tab.Modes().Current()
	if k, err := m.tab.Caret(); err == nil {
		m.state = k.State()
	} else {
		m.state = caret.SelectionState{}
	}
	m.scrollToCaret()
	return m
}

func (m *Model) scrollToCaret() {
	if m.snap.Layout == nil || m.snap.Selection.Type == engine.SelectionNone {
		return
	}
	height := m.bodyHeight()
	if height <= 0 {
		return
	}
	row := m.snap.Layout.LineAt(m.snap.Selection.Focus)
	if row < m.top {
		m.top = row
	}
	if row >= m.top+height {
		m.top = row - height + 1
	}
}

func (m Model) bodyHeight() int {
	h := m.height
	if m.opts.ShowStatusBar {
		h--
	}
	if m.searching {
		h--
	}
	h -= lipgloss.Height(m.help.View(m.keys))
	return h
}

// View renders the document, the prompt and the status bar.
func (m Model) View() string {
	if m.snap.Layout == nil {
		return ""
	}
	var sections []string
	sections = append(sections, m.renderBody(m.bodyHeight()))
	if m.searching {
		sections = append(sections, m.input.View())
	}
	if m.opts.ShowStatusBar {
		sections = append(sections, m.renderStatus())
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBody(height int) string {
	if height <= 0 {
		height = len(m.snap.Layout.Lines)
	}
	doc := m.snap.Document
	sel := m.snap.Selection
	showCaret := m.mode == mode.Caret && sel.Type != engine.SelectionNone
	focusRow := -1
	if showCaret {
		focusRow = m.snap.Layout.LineAt(sel.Focus)
	}

	lines := make([]string, 0, height)
	for i := m.top; i < len(m.snap.Layout.Lines) && len(lines) < height; i++ {
		row := m.snap.Layout.Lines[i]
		var b strings.Builder
		var run strings.Builder
		runStyle := 0
		flush := func() {
			if run.Len() == 0 {
				return
			}
			switch runStyle {
			case 1:
				b.WriteString(styles.SelectionStyle.Render(run.String()))
			case 2:
				b.WriteString(styles.CaretStyle.Render(run.String()))
			default:
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for p := row.Start; p < row.End; p++ {
			style := 0
			switch {
			case showCaret && p == sel.Focus:
				style = 2
			case !sel.IsCollapsed() && p >= sel.Start() && p < sel.End():
				style = 1
			}
			if style != runStyle {
				flush()
				runStyle = style
			}
			g := doc.Grapheme(p)
			if g == "\t" {
				g = "    "
			}
			run.WriteString(g)
		}
		flush()
		if i == focusRow && sel.Focus == row.End {
			b.WriteString(styles.CaretStyle.Render(" "))
		}
		lines = append(lines, b.String())
	}
	for len(lines) < height {
		lines = append(lines, styles.MutedStyle.Render("~"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	badge := styles.ModeNormalBadge.Render("NORMAL")
	switch {
	case m.mode == mode.Caret && m.state.Selecting:
		badge = styles.ModeVisualBadge.Render("VISUAL")
	case m.mode == mode.Caret:
		badge = styles.ModeCaretBadge.Render("CARET")
	}

	parts := []string{badge}
	if m.opts.Title != "" {
		parts = append(parts, m.opts.Title)
	}
	sel := m.snap.Selection
	if sel.Type != engine.SelectionNone {
		loc := m.snap.Document.Locate(sel.Focus)
		parts = append(parts, fmt.Sprintf("%d:%d", loc.Line+1, loc.Column+1))
	}
	if !sel.IsCollapsed() {
		parts = append(parts, fmt.Sprintf("%d selected", sel.End()-sel.Start()))
	}
	if q := m.tab.Search().Query(); q != "" {
		parts = append(parts, "/"+q)
	}
	if m.count > 0 {
		parts = append(parts, fmt.Sprint(m.count))
	}
	if t := m.toast.View(); t != "" {
		parts = append(parts, t)
	} else if m.lastLog != "" {
		parts = append(parts, styles.MutedStyle.Render(m.lastLog))
	}

	line := strings.Join(parts, " ")
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
	}
	return styles.StatusBarStyle.Width(max(m.width, 0)).Render(line)
}
