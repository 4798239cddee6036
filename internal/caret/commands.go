package caret

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCommand is returned for names missing from the registry.
var ErrUnknownCommand = errors.New("unknown caret command")

// Command is a named caret operation that scripts and key bindings invoke.
type Command struct {
	Name string
	Help string
	// Counted commands repeat; the rest ignore the count.
	Counted bool
	Run     func(ctx context.Context, k *Caret, count int) error
}

func counted(name, help string, fn func(*Caret, context.Context, int) error) Command {
	return Command{Name: name, Help: help, Counted: true, Run: func(ctx context.Context, k *Caret, count int) error {
		return fn(k, ctx, count)
	}}
}

// boundary commands take no count.
func boundary(name, help string, fn func(*Caret, context.Context, int) error) Command {
	c := counted(name, help, fn)
	c.Counted = false
	return c
}

func single(name, help string, fn func(*Caret, context.Context) error) Command {
	return Command{Name: name, Help: help, Run: func(ctx context.Context, k *Caret, _ int) error {
		return fn(k, ctx)
	}}
}

var registry = map[string]Command{}

func register(cmds ...Command) {
	for _, c := range cmds {
		registry[c.Name] = c
	}
}

func init() {
	register(
		counted("move-to-next-char", "Move the cursor or selection to the next char.", (*Caret).MoveToNextChar),
		counted("move-to-prev-char", "Move the cursor or selection to the previous char.", (*Caret).MoveToPrevChar),
		counted("move-to-next-word", "Move the cursor or selection to the next word.", (*Caret).MoveToNextWord),
		counted("move-to-prev-word", "Move the cursor or selection to the previous word.", (*Caret).MoveToPrevWord),
		counted("move-to-end-of-word", "Move the cursor or selection to the end of the word.", (*Caret).MoveToEndOfWord),
		counted("move-to-next-line", "Move the cursor or selection to the next line.", (*Caret).MoveToNextLine),
		counted("move-to-prev-line", "Move the cursor or selection to the prev line.", (*Caret).MoveToPrevLine),
		boundary("move-to-start-of-line", "Move the cursor or selection to the start of the line.", (*Caret).MoveToStartOfLine),
		boundary("move-to-end-of-line", "Move the cursor or selection to the end of line.", (*Caret).MoveToEndOfLine),
		counted("move-to-start-of-next-block", "Move the cursor or selection to the start of next block.", (*Caret).MoveToStartOfNextBlock),
		counted("move-to-start-of-prev-block", "Move the cursor or selection to the start of previous block.", (*Caret).MoveToStartOfPrevBlock),
		counted("move-to-end-of-next-block", "Move the cursor or selection to the end of next block.", (*Caret).MoveToEndOfNextBlock),
		counted("move-to-end-of-prev-block", "Move the cursor or selection to the end of previous block.", (*Caret).MoveToEndOfPrevBlock),
		boundary("move-to-start-of-document", "Move the cursor or selection to the start of the document.", (*Caret).MoveToStartOfDocument),
		boundary("move-to-end-of-document", "Move the cursor or selection to the end of the document.", (*Caret).MoveToEndOfDocument),
		single("toggle-selection", "Toggle caret selection mode.", (*Caret).ToggleSelection),
		single("drop-selection", "Collapse the selection onto the cursor and stop selecting.", (*Caret).DropSelection),
		single("reverse-selection", "Swap the stationary and moving end of the current selection.", (*Caret).ReverseSelection),
	)
}

// Lookup finds a command by name.
func Lookup(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names lists every registered command, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named command on k.
func Run(ctx context.Context, k *Caret, name string, count int) error {
	c, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return c.Run(ctx, k, count)
}
