package engine

import (
	"sort"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/zjrosen/caret/internal/document"
)

// span is a half-open grapheme range.
type span struct {
	start, end int
}

// indexWords returns the word segments of doc in order. A segment counts as a
// word when it holds at least one letter or digit.
func indexWords(doc *document.Document) []span {
	var words []span
	text := doc.Text()
	state := -1
	offset := 0
	for len(text) > 0 {
		var segment string
		segment, text, state = uniseg.FirstWordInString(text, state)
		if isWord(segment) {
			words = append(words, span{
				start: doc.PositionOf(offset),
				end:   doc.PositionOf(offset + len(segment)),
			})
		}
		offset += len(segment)
	}
	return words
}

func isWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// resolve returns where the focus lands when it moves one unit of g in dir
// from pos.
func (e *Engine) resolve(pos int, dir Direction, g Granularity) int {
	switch g {
	case Character:
		if dir == Forward {
			return min(pos+1, e.doc.Len())
		}
		return max(pos-1, 0)
	case Word:
		return e.wordBoundary(pos, dir)
	case Line:
		return e.lineMove(pos, dir)
	case LineBoundary:
		return e.lineBoundary(pos, dir)
	case Paragraph:
		return e.paragraphMove(pos, dir)
	case ParagraphBoundary:
		return e.paragraphBoundary(pos, dir)
	case DocumentBoundary:
		if dir == Forward {
			return e.doc.Len()
		}
		return 0
	}
	return pos
}

// wordBoundary moves forward to the end of the word containing pos or of the
// next word, and backward to the start of the word containing pos or of the
// previous word. Without such a word it stops at the document edge.
func (e *Engine) wordBoundary(pos int, dir Direction) int {
	if dir == Forward {
		i := sort.Search(len(e.words), func(i int) bool { return e.words[i].end > pos })
		if i == len(e.words) {
			return e.doc.Len()
		}
		return e.words[i].end
	}
	i := sort.Search(len(e.words), func(i int) bool { return e.words[i].start >= pos })
	if i == 0 {
		return 0
	}
	return e.words[i-1].start
}

// lineMove goes to the adjacent visual row at the same display column. On the
// first or last row nothing moves.
func (e *Engine) lineMove(pos int, dir Direction) int {
	layout := e.layout()
	row := layout.LineAt(pos)
	target := row + 1
	if dir == Backward {
		target = row - 1
	}
	if target < 0 || target >= len(layout.Lines) {
		return pos
	}
	return layout.atColumn(e.doc, target, layout.column(e.doc, row, pos))
}

// lineBoundary goes to the start or end of the visual row. The end of a
// soft-wrapped row excludes its trailing whitespace.
func (e *Engine) lineBoundary(pos int, dir Direction) int {
	layout := e.layout()
	line := layout.Lines[layout.LineAt(pos)]
	if dir == Backward {
		return line.Start
	}
	if !line.Soft {
		return line.End
	}
	return max(pos, line.TextEnd)
}

// paragraphs are the non-blank hard lines.
func (e *Engine) isParagraph(hard int) bool {
	start, end := e.doc.LineRange(hard)
	for p := start; p < end; p++ {
		if !isSpace(e.doc.Grapheme(p)) {
			return true
		}
	}
	return false
}

// paragraphMove goes to the start of the next paragraph after the hard line
// holding pos, or of the paragraph before it. Past the last paragraph the
// focus goes to the document edge.
func (e *Engine) paragraphMove(pos int, dir Direction) int {
	current := e.doc.Locate(pos).Line
	if dir == Forward {
		for hard := current + 1; hard < e.doc.LineCount(); hard++ {
			if e.isParagraph(hard) {
				start, _ := e.doc.LineRange(hard)
				return start
			}
		}
		return e.doc.Len()
	}
	for hard := current - 1; hard >= 0; hard-- {
		if e.isParagraph(hard) {
			start, _ := e.doc.LineRange(hard)
			return start
		}
	}
	return 0
}

// paragraphBoundary goes to the end or start of the paragraph holding pos. On
// a blank line it targets the next paragraph going forward and the previous
// one going backward.
func (e *Engine) paragraphBoundary(pos int, dir Direction) int {
	hard := e.doc.Locate(pos).Line
	if dir == Forward {
		for ; hard < e.doc.LineCount(); hard++ {
			if e.isParagraph(hard) {
				_, end := e.doc.LineRange(hard)
				if end < pos {
					return pos
				}
				return end
			}
		}
		return e.doc.Len()
	}
	for ; hard >= 0; hard-- {
		if e.isParagraph(hard) {
			start, _ := e.doc.LineRange(hard)
			return min(start, pos)
		}
	}
	return 0
}
