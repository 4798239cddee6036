package cmd

import (
	"fmt"

	"github.com/zjrosen/caret/internal/document"
	"github.com/zjrosen/caret/internal/tab"
	"github.com/zjrosen/caret/internal/tracing"
)

// openTab loads path into a new tab wired to the configured tracer.
func openTab(path string, provider *tracing.Provider) (*tab.Tab, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return tab.New(doc, cfg, tab.WithTracer(provider.Tracer())), nil
}
