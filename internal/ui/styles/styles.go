// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"}
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	CaretColor     = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	SelectionColor = lipgloss.AdaptiveColor{Light: "#BCC0CC", Dark: "#45475A"}

	StatusBarBgColor   = lipgloss.AdaptiveColor{Light: "#DCE0E8", Dark: "#313244"}
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Mode badge colors
	ModeNormalColor = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"}
	ModeCaretColor  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	ModeVisualColor = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"}

	TextStyle      = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MutedStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	CaretStyle     = lipgloss.NewStyle().Reverse(true).Foreground(CaretColor)
	SelectionStyle = lipgloss.NewStyle().Background(SelectionColor)

	StatusBarStyle = lipgloss.NewStyle().Background(StatusBarBgColor).Foreground(TextPrimaryColor)
	ErrorStyle     = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle   = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	WarningStyle   = lipgloss.NewStyle().Foreground(StatusWarningColor)

	badgeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#1E1E2E"))

	ModeNormalBadge = badgeStyle.Background(ModeNormalColor)
	ModeCaretBadge  = badgeStyle.Background(ModeCaretColor)
	ModeVisualBadge = badgeStyle.Background(ModeVisualColor)
)
