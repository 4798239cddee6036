package caret

import (
	"context"

	"github.com/zjrosen/caret/internal/engine"
	"github.com/zjrosen/caret/internal/log"
)

// step is one unit of a movement. It may issue several engine requests.
type step func(ctx context.Context, alter engine.Alter) error

// move runs step count times under the token. Movement extends the
// selection while selecting and collapses it otherwise.
func (k *Caret) move(ctx context.Context, name string, count int, s step) error {
	count = max(count, 1)
	return k.run(ctx, name, count, func(ctx context.Context) error {
		alter := engine.Move
		if k.Selecting() {
			alter = engine.Extend
		}
		for range count {
			if err := s(ctx, alter); err != nil {
				return err
			}
		}
		state := k.State()
		log.Debug(log.CatCaret, name, "count", count, "anchor", state.Anchor, "focus", state.Focus)
		return nil
	})
}

// modify asks the engine to move the focus and mirrors its answer.
func (k *Caret) modify(ctx context.Context, alter engine.Alter, dir engine.Direction, g engine.Granularity) (engine.Selection, error) {
	sel, err := await(ctx, k.ctl, func(cb func(engine.Selection)) {
		k.ctl.eng.Modify(alter, dir, g, cb)
	})
	if err != nil {
		return sel, err
	}
	k.mirror(sel)
	return sel, nil
}

func unit(k *Caret, dir engine.Direction, g engine.Granularity) step {
	return func(ctx context.Context, alter engine.Alter) error {
		_, err := k.modify(ctx, alter, dir, g)
		return err
	}
}

func chain(steps ...step) step {
	return func(ctx context.Context, alter engine.Alter) error {
		for _, s := range steps {
			if err := s(ctx, alter); err != nil {
				return err
			}
		}
		return nil
	}
}

// MoveToNextChar moves one grapheme forward.
func (k *Caret) MoveToNextChar(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-next-char", count, unit(k, engine.Forward, engine.Character))
}

// MoveToPrevChar moves one grapheme backward.
func (k *Caret) MoveToPrevChar(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-prev-char", count, unit(k, engine.Backward, engine.Character))
}

// MoveToEndOfWord moves to the end of the current or next word.
func (k *Caret) MoveToEndOfWord(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-end-of-word", count, unit(k, engine.Forward, engine.Word))
}

// MoveToPrevWord moves to the start of the current or previous word.
func (k *Caret) MoveToPrevWord(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-prev-word", count, unit(k, engine.Backward, engine.Word))
}

// MoveToNextWord moves to the start of the next word: two word ends forward,
// then back to the start of that word. After the last word the caret stays at
// its end, even when non-word text follows it.
func (k *Caret) MoveToNextWord(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-next-word", count, func(ctx context.Context, alter engine.Alter) error {
		first, err := k.modify(ctx, alter, engine.Forward, engine.Word)
		if err != nil {
			return err
		}
		second, err := k.modify(ctx, alter, engine.Forward, engine.Word)
		if err != nil {
			return err
		}
		if second.Focus == first.Focus {
			return nil
		}
		back, err := k.modify(ctx, alter, engine.Backward, engine.Word)
		if err != nil {
			return err
		}
		// The second step ran off the last word into trailing punctuation,
		// so the way back found the word the caret started in.
		if back.Focus < first.Focus {
			return k.restore(ctx, first)
		}
		return nil
	})
}

// restore puts sel back as the native selection.
func (k *Caret) restore(ctx context.Context, sel engine.Selection) error {
	got, err := await(ctx, k.ctl, func(cb func(engine.Selection)) {
		k.ctl.eng.SetSelection(sel, cb)
	})
	if err != nil {
		return err
	}
	k.mirror(got)
	return nil
}

// MoveToNextLine moves to the next visual line, keeping the column.
func (k *Caret) MoveToNextLine(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-next-line", count, unit(k, engine.Forward, engine.Line))
}

// MoveToPrevLine moves to the previous visual line, keeping the column.
func (k *Caret) MoveToPrevLine(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-prev-line", count, unit(k, engine.Backward, engine.Line))
}

// MoveToStartOfLine moves to the start of the visual line.
func (k *Caret) MoveToStartOfLine(ctx context.Context, _ int) error {
	return k.move(ctx, "move-to-start-of-line", 1, unit(k, engine.Backward, engine.LineBoundary))
}

// MoveToEndOfLine moves to the end of the visual line.
func (k *Caret) MoveToEndOfLine(ctx context.Context, _ int) error {
	return k.move(ctx, "move-to-end-of-line", 1, unit(k, engine.Forward, engine.LineBoundary))
}

// MoveToStartOfNextBlock moves to the start of the next block.
func (k *Caret) MoveToStartOfNextBlock(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-start-of-next-block", count, unit(k, engine.Forward, engine.Paragraph))
}

// MoveToStartOfPrevBlock moves to the start of the previous block.
func (k *Caret) MoveToStartOfPrevBlock(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-start-of-prev-block", count, unit(k, engine.Backward, engine.Paragraph))
}

// MoveToEndOfNextBlock moves to the end of the next block.
func (k *Caret) MoveToEndOfNextBlock(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-end-of-next-block", count, chain(
		unit(k, engine.Forward, engine.Paragraph),
		unit(k, engine.Forward, engine.ParagraphBoundary),
	))
}

// MoveToEndOfPrevBlock moves to the end of the previous block.
func (k *Caret) MoveToEndOfPrevBlock(ctx context.Context, count int) error {
	return k.move(ctx, "move-to-end-of-prev-block", count, chain(
		unit(k, engine.Backward, engine.Paragraph),
		unit(k, engine.Forward, engine.ParagraphBoundary),
	))
}

// MoveToStartOfDocument moves to the document start.
func (k *Caret) MoveToStartOfDocument(ctx context.Context, _ int) error {
	return k.move(ctx, "move-to-start-of-document", 1, unit(k, engine.Backward, engine.DocumentBoundary))
}

// MoveToEndOfDocument moves to the document end.
func (k *Caret) MoveToEndOfDocument(ctx context.Context, _ int) error {
	return k.move(ctx, "move-to-end-of-document", 1, unit(k, engine.Forward, engine.DocumentBoundary))
}
