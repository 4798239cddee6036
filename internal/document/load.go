package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// ParseText builds a document from plain text: blank lines separate blocks,
// single newlines are hard line breaks.
func ParseText(s string) *Document {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var blocks []Block
	for _, chunk := range blankLines.Split(s, -1) {
		blocks = append(blocks, Block{Kind: KindParagraph, Runs: []Run{{Text: chunk}}})
	}
	return New(blocks...)
}

// Load reads path and parses it according to its extension:
// .html/.htm as HTML, .md/.markdown as Markdown, anything else as plain text.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the document the user asked to open
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ParseHTML(bytes.NewReader(data))
	case ".md", ".markdown":
		return ParseMarkdown(data)
	default:
		return ParseText(string(data)), nil
	}
}
