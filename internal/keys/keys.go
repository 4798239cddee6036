// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the caret viewer.
type KeyMap struct {
	// Character and word motion
	NextChar  key.Binding
	PrevChar  key.Binding
	NextWord  key.Binding
	PrevWord  key.Binding
	EndOfWord key.Binding

	// Lines
	NextLine    key.Binding
	PrevLine    key.Binding
	StartOfLine key.Binding
	EndOfLine   key.Binding

	// Blocks
	StartOfNextBlock key.Binding
	StartOfPrevBlock key.Binding
	EndOfNextBlock   key.Binding
	EndOfPrevBlock   key.Binding

	// Document
	StartOfDocument key.Binding
	EndOfDocument   key.Binding

	// Selection
	ToggleSelection  key.Binding
	DropSelection    key.Binding
	ReverseSelection key.Binding
	Yank             key.Binding

	// Search
	Search     key.Binding
	NextResult key.Binding
	PrevResult key.Binding

	// General
	ToggleCaret key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextChar: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next char"),
		),
		PrevChar: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev char"),
		),
		NextWord: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "next word"),
		),
		PrevWord: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "prev word"),
		),
		EndOfWord: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end of word"),
		),

		NextLine: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next line"),
		),
		PrevLine: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev line"),
		),
		StartOfLine: key.NewBinding(
			key.WithKeys("0", "home"),
			key.WithHelp("0", "start of line"),
		),
		EndOfLine: key.NewBinding(
			key.WithKeys("$", "end"),
			key.WithHelp("$", "end of line"),
		),

		StartOfNextBlock: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "next block"),
		),
		StartOfPrevBlock: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "prev block"),
		),
		EndOfNextBlock: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "end of next block"),
		),
		EndOfPrevBlock: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "end of prev block"),
		),

		StartOfDocument: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "start of document"),
		),
		EndOfDocument: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "end of document"),
		),

		ToggleSelection: key.NewBinding(
			key.WithKeys("v", " "),
			key.WithHelp("v", "toggle selection"),
		),
		DropSelection: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "drop selection"),
		),
		ReverseSelection: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "reverse selection"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank selection"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextResult: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		PrevResult: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "prev match"),
		),

		ToggleCaret: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "caret mode on/off"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns bindings for the compact help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleCaret, k.ToggleSelection, k.Yank, k.Search, k.Help, k.Quit}
}

// FullHelp returns bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextChar, k.PrevChar, k.NextWord, k.PrevWord, k.EndOfWord},
		{k.NextLine, k.PrevLine, k.StartOfLine, k.EndOfLine},
		{k.StartOfNextBlock, k.StartOfPrevBlock, k.EndOfNextBlock, k.EndOfPrevBlock, k.StartOfDocument, k.EndOfDocument},
		{k.ToggleSelection, k.DropSelection, k.ReverseSelection, k.Yank},
		{k.Search, k.NextResult, k.PrevResult, k.ToggleCaret, k.Help, k.Quit},
	}
}

// Motions maps each motion binding to its caret command name.
func (k KeyMap) Motions() []Motion {
	return []Motion{
		{k.NextChar, "move-to-next-char"},
		{k.PrevChar, "move-to-prev-char"},
		{k.NextWord, "move-to-next-word"},
		{k.PrevWord, "move-to-prev-word"},
		{k.EndOfWord, "move-to-end-of-word"},
		{k.NextLine, "move-to-next-line"},
		{k.PrevLine, "move-to-prev-line"},
		{k.StartOfLine, "move-to-start-of-line"},
		{k.EndOfLine, "move-to-end-of-line"},
		{k.StartOfNextBlock, "move-to-start-of-next-block"},
		{k.StartOfPrevBlock, "move-to-start-of-prev-block"},
		{k.EndOfNextBlock, "move-to-end-of-next-block"},
		{k.EndOfPrevBlock, "move-to-end-of-prev-block"},
		{k.EndOfDocument, "move-to-end-of-document"},
		{k.ToggleSelection, "toggle-selection"},
		{k.DropSelection, "drop-selection"},
		{k.ReverseSelection, "reverse-selection"},
	}
}

// Motion pairs a binding with the caret command it runs.
type Motion struct {
	Binding key.Binding
	Command string
}
