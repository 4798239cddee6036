// Package toaster shows short-lived messages in the viewer's status line.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/caret/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 2 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	// seq identifies the current toast so an older dismiss does not hide a
	// newer message.
	seq int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after
// DefaultDuration.
func (m Model) Show(message string, style Style) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m, ScheduleDismiss(m.seq, DefaultDuration)
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.Seq == m.seq {
		return m.Hide()
	}
	return m
}

// View renders the toast on one line.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}
	switch m.style {
	case StyleError:
		return styles.ErrorStyle.Render("✗ " + m.message)
	case StyleWarn:
		return styles.WarningStyle.Render("! " + m.message)
	case StyleInfo:
		return styles.TextStyle.Render(m.message)
	default:
		return styles.SuccessStyle.Render("✓ " + m.message)
	}
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	Seq int
}

// ScheduleDismiss returns a command that dismisses toast seq after d.
func ScheduleDismiss(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{Seq: seq}
	})
}
