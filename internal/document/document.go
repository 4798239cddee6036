// Package document models rendered page content as an ordered list of blocks
// and exposes it as one flattened text addressed by grapheme offsets.
//
// Three units are in play:
//
//  1. Bytes: storage offsets into the flattened string.
//  2. Graphemes: user-perceived characters (uniseg clusters). Every position
//     handed out by this package is a grapheme offset.
//  3. Cells: terminal display width, used only by layout in the engine.
package document

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Kind classifies a block.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindListItem
	KindQuote
	KindPreformatted
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list-item"
	case KindQuote:
		return "quote"
	case KindPreformatted:
		return "preformatted"
	default:
		return "unknown"
	}
}

// BlockSeparator joins blocks in the flattened text.
const BlockSeparator = "\n\n"

// Run is a piece of inline text. A "\n" inside Text is a hard line break.
type Run struct {
	Text string
}

// Block is a structural grouping of inline runs.
type Block struct {
	Kind Kind
	Runs []Run
}

// Text returns the block's normalized text. Outside preformatted blocks,
// whitespace runs collapse to one space and each hard line is trimmed;
// empty hard lines are dropped so they cannot masquerade as block separators.
func (b Block) Text() string {
	var raw strings.Builder
	for _, r := range b.Runs {
		raw.WriteString(r.Text)
	}
	if b.Kind == KindPreformatted {
		return strings.Trim(strings.ReplaceAll(raw.String(), "\r\n", "\n"), "\n")
	}

	lines := strings.Split(raw.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			kept = append(kept, collapsed)
		}
	}
	return strings.Join(kept, "\n")
}

// Location is a position resolved against hard lines.
type Location struct {
	Line   int // hard line index, counting blank separator lines
	Column int // grapheme column within the line
}

// Document is immutable once built.
type Document struct {
	blocks []Block
	text   string

	// offsets[i] is the byte offset of grapheme i; offsets[len] == len(text).
	offsets []int
	// lineStarts holds the grapheme offset of each hard line's first grapheme.
	lineStarts []int
}

// New builds a document from blocks. Blocks whose text is empty are skipped.
func New(blocks ...Block) *Document {
	d := &Document{}
	var parts []string
	for _, b := range blocks {
		text := b.Text()
		if text == "" {
			continue
		}
		d.blocks = append(d.blocks, b)
		parts = append(parts, text)
	}
	d.text = strings.Join(parts, BlockSeparator)
	d.index()
	return d
}

func (d *Document) index() {
	d.offsets = d.offsets[:0]
	d.lineStarts = []int{0}

	s := d.text
	state := -1
	byteOffset := 0
	idx := 0
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		d.offsets = append(d.offsets, byteOffset)
		byteOffset += len(cluster)
		idx++
		if cluster == "\n" || cluster == "\r\n" {
			d.lineStarts = append(d.lineStarts, idx)
		}
		s = rest
		state = newState
	}
	d.offsets = append(d.offsets, len(d.text))
}

// Blocks returns the non-empty blocks in document order.
func (d *Document) Blocks() []Block {
	return d.blocks
}

// Text returns the flattened text.
func (d *Document) Text() string {
	return d.text
}

// Len returns the number of graphemes in the flattened text.
func (d *Document) Len() int {
	return len(d.offsets) - 1
}

// Clamp limits pos to [0, Len()].
func (d *Document) Clamp(pos int) int {
	return max(0, min(pos, d.Len()))
}

// Grapheme returns the cluster at pos, or "" when pos is out of range.
func (d *Document) Grapheme(pos int) string {
	if pos < 0 || pos >= d.Len() {
		return ""
	}
	return d.text[d.offsets[pos]:d.offsets[pos+1]]
}

// ByteOffset converts a grapheme offset to a byte offset, clamping first.
func (d *Document) ByteOffset(pos int) int {
	return d.offsets[d.Clamp(pos)]
}

// PositionOf converts a byte offset to the grapheme containing it.
func (d *Document) PositionOf(byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(d.text) {
		return d.Len()
	}
	lo, hi := 0, d.Len()
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.offsets[mid] <= byteOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Slice returns the text between two grapheme offsets in either order.
func (d *Document) Slice(a, b int) string {
	a, b = d.Clamp(a), d.Clamp(b)
	if a > b {
		a, b = b, a
	}
	return d.text[d.offsets[a]:d.offsets[b]]
}

// LineCount returns the number of hard lines, blank separators included.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// LineRange returns the grapheme range of hard line i, excluding its newline.
func (d *Document) LineRange(i int) (start, end int) {
	if i < 0 || i >= len(d.lineStarts) {
		return d.Len(), d.Len()
	}
	start = d.lineStarts[i]
	if i+1 < len(d.lineStarts) {
		return start, d.lineStarts[i+1] - 1
	}
	return start, d.Len()
}

// Locate resolves pos to its hard line and column.
func (d *Document) Locate(pos int) Location {
	pos = d.Clamp(pos)
	lo, hi := 0, len(d.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.lineStarts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Location{Line: lo, Column: pos - d.lineStarts[lo]}
}

// Offset is the inverse of Locate; the column is clamped to the line.
func (d *Document) Offset(loc Location) int {
	if loc.Line < 0 {
		return 0
	}
	if loc.Line >= len(d.lineStarts) {
		return d.Len()
	}
	start, end := d.LineRange(loc.Line)
	return start + max(0, min(loc.Column, end-start))
}
