package engine

import (
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/caret/internal/document"
)

// VisualLine is one rendered row. Start and End are grapheme offsets; End is
// exclusive and never includes the hard line's newline. A soft-wrapped row
// keeps its trailing whitespace in [TextEnd, End).
type VisualLine struct {
	Start   int
	End     int
	TextEnd int
	Hard    int  // index of the hard line this row belongs to
	Soft    bool // true when the row ends at a wrap point, not a newline
}

// Layout is the visual line breakdown of a document at one width.
type Layout struct {
	Width int
	Lines []VisualLine
}

// cellWidth is the number of terminal cells a grapheme occupies.
func cellWidth(g string) int {
	if g == "\t" {
		return 4
	}
	return runewidth.StringWidth(g)
}

func isSpace(g string) bool {
	for _, r := range g {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return g != ""
}

// computeLayout wraps each hard line at width cells. Breaks go after a run of
// whitespace when the row has one; a single word wider than the row is cut
// where it overflows. width <= 0 disables wrapping.
func computeLayout(doc *document.Document, width int) *Layout {
	l := &Layout{Width: width}
	for hard := 0; hard < doc.LineCount(); hard++ {
		start, end := doc.LineRange(hard)
		l.Lines = append(l.Lines, wrapHardLine(doc, hard, start, end, width)...)
	}
	return l
}

func wrapHardLine(doc *document.Document, hard, start, end, width int) []VisualLine {
	if width <= 0 || start == end {
		return []VisualLine{{Start: start, End: end, TextEnd: end, Hard: hard}}
	}

	var rows []VisualLine
	rowStart := start
	for rowStart < end {
		cells := 0
		lastBreak := -1
		p := rowStart
		for p < end {
			g := doc.Grapheme(p)
			w := cellWidth(g)
			if cells+w > width && p > rowStart {
				break
			}
			cells += w
			if isSpace(g) {
				lastBreak = p + 1
			}
			p++
		}

		if p >= end {
			rows = append(rows, VisualLine{Start: rowStart, End: end, TextEnd: end, Hard: hard})
			break
		}

		cut := p
		switch {
		case isSpace(doc.Grapheme(p)):
			// Overflowing whitespace hangs at the end of this row.
			for cut < end && isSpace(doc.Grapheme(cut)) {
				cut++
			}
		case lastBreak > rowStart:
			cut = lastBreak
		}

		textEnd := cut
		for textEnd > rowStart && isSpace(doc.Grapheme(textEnd-1)) {
			textEnd--
		}
		rows = append(rows, VisualLine{Start: rowStart, End: cut, TextEnd: textEnd, Hard: hard, Soft: cut < end})
		rowStart = cut
	}
	return rows
}

// LineAt returns the index of the visual row containing pos. A position on a
// wrap point belongs to the row that starts there.
func (l *Layout) LineAt(pos int) int {
	lo, hi := 0, len(l.Lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.Lines[mid].Start <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// column returns the display column of pos within its row.
func (l *Layout) column(doc *document.Document, row, pos int) int {
	cells := 0
	for p := l.Lines[row].Start; p < pos; p++ {
		cells += cellWidth(doc.Grapheme(p))
	}
	return cells
}

// atColumn returns the position in row whose display column is closest to
// col without passing it, clamped to the row's text end.
func (l *Layout) atColumn(doc *document.Document, row, col int) int {
	line := l.Lines[row]
	limit := line.End
	if line.Soft {
		limit = line.TextEnd
	}
	cells := 0
	p := line.Start
	for p < limit {
		w := cellWidth(doc.Grapheme(p))
		if cells+w > col {
			break
		}
		cells += w
		p++
	}
	return p
}
