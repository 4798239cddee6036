package document

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown builds a document from CommonMark source.
func ParseMarkdown(src []byte) (*Document, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var (
		blocks []Block
		buf    strings.Builder
	)
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(src))
				switch {
				case node.HardLineBreak():
					buf.WriteString("\n")
				case node.SoftLineBreak():
					buf.WriteString(" ")
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				var code strings.Builder
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					code.Write(seg.Value(src))
				}
				blocks = append(blocks, Block{Kind: KindPreformatted, Runs: []Run{{Text: code.String()}}})
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if !entering && buf.Len() > 0 {
				blocks = append(blocks, Block{Kind: markdownKind(n), Runs: []Run{{Text: buf.String()}}})
				buf.Reset()
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking markdown: %w", err)
	}
	return New(blocks...), nil
}

// markdownKind derives a block kind from the node and its containers.
func markdownKind(n ast.Node) Kind {
	if _, ok := n.(*ast.Heading); ok {
		return KindHeading
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.(type) {
		case *ast.ListItem:
			return KindListItem
		case *ast.Blockquote:
			return KindQuote
		}
	}
	return KindParagraph
}
