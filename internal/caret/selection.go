package caret

import (
	"context"
	"fmt"

	"github.com/zjrosen/caret/internal/clipboard"
	"github.com/zjrosen/caret/internal/engine"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/pubsub"
)

// ToggleSelection starts or stops extending the selection. Turning it on
// pins a new anchor at the caret; turning it off leaves the selected range
// in place until the next movement or DropSelection. The toggle event is
// published once the engine acknowledged.
func (k *Caret) ToggleSelection(ctx context.Context) error {
	return k.run(ctx, "toggle-selection", 1, func(ctx context.Context) error {
		state := k.State()
		if state.Selecting {
			state.Selecting = false
		} else {
			sel, err := k.collapse(ctx)
			if err != nil {
				return err
			}
			state = SelectionState{Selecting: true, Anchor: sel.Anchor, Focus: sel.Focus}
		}
		k.setState(state)

		log.Debug(log.CatSelection, "selection toggled", "selecting", state.Selecting, "anchor", state.Anchor)
		k.ctl.events.Publish(pubsub.SelectionToggledEvent, state)
		return nil
	})
}

// DropSelection collapses the selection onto the caret and stops selecting.
func (k *Caret) DropSelection(ctx context.Context) error {
	return k.run(ctx, "drop-selection", 1, func(ctx context.Context) error {
		sel, err := k.collapse(ctx)
		if err != nil {
			return err
		}
		state := SelectionState{Anchor: sel.Anchor, Focus: sel.Focus}
		k.setState(state)

		log.Debug(log.CatSelection, "selection dropped", "focus", state.Focus)
		k.ctl.events.Publish(pubsub.SelectionDroppedEvent, state)
		return nil
	})
}

// ReverseSelection swaps anchor and focus so the other end moves next.
func (k *Caret) ReverseSelection(ctx context.Context) error {
	return k.run(ctx, "reverse-selection", 1, func(ctx context.Context) error {
		sel, err := await(ctx, k.ctl, k.ctl.eng.Selection)
		if err != nil {
			return err
		}
		if sel.IsCollapsed() {
			return nil
		}
		sel, err = await(ctx, k.ctl, func(cb func(engine.Selection)) {
			k.ctl.eng.SetSelection(sel.Reversed(), cb)
		})
		if err != nil {
			return err
		}
		k.mirror(sel)
		return nil
	})
}

// Selection returns the selected text exactly as the engine reports it, or
// "" when nothing is selected.
func (k *Caret) Selection(ctx context.Context) (string, error) {
	var text string
	err := k.run(ctx, "selection", 0, func(ctx context.Context) error {
		var err error
		text, err = await(ctx, k.ctl, k.ctl.eng.SelectedText)
		return err
	})
	return text, err
}

// Yank copies the selected text to w.
func (k *Caret) Yank(ctx context.Context, w clipboard.Writer) error {
	text, err := k.Selection(ctx)
	if err != nil {
		return err
	}
	if text == "" {
		return ErrEmptySelection
	}
	if err := w.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	log.Info(log.CatSelection, "selection yanked", "bytes", len(text))
	return nil
}

// collapse collapses the native selection onto its focus. An empty native
// selection becomes a caret at the document start.
func (k *Caret) collapse(ctx context.Context) (engine.Selection, error) {
	sel, err := await(ctx, k.ctl, k.ctl.eng.Collapse)
	if err != nil {
		return sel, err
	}
	if sel.Type == engine.SelectionNone {
		sel, err = await(ctx, k.ctl, func(cb func(engine.Selection)) {
			k.ctl.eng.SetSelection(engine.Collapsed(0), cb)
		})
	}
	return sel, err
}
