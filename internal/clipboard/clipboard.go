// Package clipboard copies selections out of caret mode.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Writer receives yanked text.
type Writer interface {
	WriteAll(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteAll implements Writer.
func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Supported reports whether a system clipboard is reachable.
func Supported() bool {
	return !clipboard.Unsupported
}

// Memory keeps yanked text in process. It backs headless runs and tests.
type Memory struct {
	mu      sync.Mutex
	history []string
}

// WriteAll implements Writer.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, text)
	return nil
}

// Last returns the most recent text, or "" when nothing was written.
func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return ""
	}
	return m.history[len(m.history)-1]
}

// History returns every written text, oldest first.
func (m *Memory) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...)
}

// Default returns the system clipboard when available and an in-memory one
// otherwise.
func Default() Writer {
	if Supported() {
		return System{}
	}
	return &Memory{}
}
