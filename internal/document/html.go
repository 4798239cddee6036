package document

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockKinds maps block-level elements to the kind of block they open.
var blockKinds = map[atom.Atom]Kind{
	atom.P:          KindParagraph,
	atom.Div:        KindParagraph,
	atom.Section:    KindParagraph,
	atom.Article:    KindParagraph,
	atom.Main:       KindParagraph,
	atom.Header:     KindParagraph,
	atom.Footer:     KindParagraph,
	atom.Nav:        KindParagraph,
	atom.Aside:      KindParagraph,
	atom.Tr:         KindParagraph,
	atom.Dt:         KindParagraph,
	atom.Dd:         KindParagraph,
	atom.H1:         KindHeading,
	atom.H2:         KindHeading,
	atom.H3:         KindHeading,
	atom.H4:         KindHeading,
	atom.H5:         KindHeading,
	atom.H6:         KindHeading,
	atom.Li:         KindListItem,
	atom.Blockquote: KindQuote,
	atom.Pre:        KindPreformatted,
}

// skipped elements contribute no rendered text.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Title:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// ParseHTML builds a document from HTML markup.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	b := &htmlBuilder{kind: KindParagraph}
	b.walk(root)
	b.flush()
	return New(b.blocks...), nil
}

type htmlBuilder struct {
	blocks []Block
	kind   Kind
	text   strings.Builder
	pre    int // depth of enclosing <pre> elements
}

func (b *htmlBuilder) flush() {
	if b.text.Len() == 0 {
		return
	}
	b.blocks = append(b.blocks, Block{Kind: b.kind, Runs: []Run{{Text: b.text.String()}}})
	b.text.Reset()
}

func (b *htmlBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.text.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			b.text.WriteString("\n")
			return
		}
	}

	kind, isBlock := blockKinds[n.DataAtom]
	if n.Type != html.ElementNode {
		isBlock = false
	}

	outer := b.kind
	if isBlock {
		b.flush()
		// Inner blocks inherit quote/list context from their container.
		if kind == KindParagraph && (outer == KindQuote || outer == KindListItem) {
			kind = outer
		}
		if b.pre > 0 {
			kind = KindPreformatted
		}
		b.kind = kind
		if n.DataAtom == atom.Pre {
			b.pre++
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}

	if isBlock {
		b.flush()
		if n.DataAtom == atom.Pre {
			b.pre--
		}
		b.kind = outer
	}
}
