package engine

import "fmt"

// SelectionType mirrors the DOM selection type.
type SelectionType int

const (
	// SelectionNone means there is no caret and no range.
	SelectionNone SelectionType = iota
	// SelectionCaret is a collapsed selection: anchor == focus.
	SelectionCaret
	// SelectionRange spans at least one grapheme.
	SelectionRange
)

func (t SelectionType) String() string {
	switch t {
	case SelectionNone:
		return "None"
	case SelectionCaret:
		return "Caret"
	case SelectionRange:
		return "Range"
	default:
		return "Unknown"
	}
}

// Selection is the engine-native selection. Anchor is where it started,
// Focus is the moving end and doubles as the caret position.
type Selection struct {
	Anchor int
	Focus  int
	Type   SelectionType
}

// NoSelection returns the empty selection.
func NoSelection() Selection {
	return Selection{}
}

// Collapsed returns a caret at pos.
func Collapsed(pos int) Selection {
	return Selection{Anchor: pos, Focus: pos, Type: SelectionCaret}
}

// Span returns a selection from anchor to focus, collapsed when they meet.
func Span(anchor, focus int) Selection {
	if anchor == focus {
		return Collapsed(focus)
	}
	return Selection{Anchor: anchor, Focus: focus, Type: SelectionRange}
}

// Start returns the lower bound.
func (s Selection) Start() int {
	return min(s.Anchor, s.Focus)
}

// End returns the upper bound.
func (s Selection) End() int {
	return max(s.Anchor, s.Focus)
}

// IsCollapsed reports whether no text is selected.
func (s Selection) IsCollapsed() bool {
	return s.Type != SelectionRange
}

// IsBackward reports whether focus precedes anchor.
func (s Selection) IsBackward() bool {
	return s.Focus < s.Anchor
}

// Reversed swaps anchor and focus.
func (s Selection) Reversed() Selection {
	if s.Type == SelectionNone {
		return s
	}
	return Span(s.Focus, s.Anchor)
}

func (s Selection) String() string {
	if s.Type == SelectionNone {
		return "None"
	}
	return fmt.Sprintf("%s(%d→%d)", s.Type, s.Anchor, s.Focus)
}

// Alter chooses between moving the caret and extending the selection.
type Alter int

const (
	Move Alter = iota
	Extend
)

func (a Alter) String() string {
	if a == Extend {
		return "extend"
	}
	return "move"
}

// Direction of a Modify request.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Granularity is the unit a Modify request moves by.
type Granularity int

const (
	// Character moves by one grapheme.
	Character Granularity = iota
	// Word moves to the end (forward) or start (backward) of a word.
	Word
	// Line moves to the adjacent visual line keeping the display column.
	Line
	// LineBoundary moves to the end or start of the visual line.
	LineBoundary
	// Paragraph moves to the start of the next or previous paragraph.
	Paragraph
	// ParagraphBoundary moves to the end or start of the current paragraph.
	ParagraphBoundary
	// DocumentBoundary moves to the end or start of the document.
	DocumentBoundary
)

func (g Granularity) String() string {
	switch g {
	case Character:
		return "character"
	case Word:
		return "word"
	case Line:
		return "line"
	case LineBoundary:
		return "lineboundary"
	case Paragraph:
		return "paragraph"
	case ParagraphBoundary:
		return "paragraphboundary"
	case DocumentBoundary:
		return "documentboundary"
	default:
		return "unknown"
	}
}
