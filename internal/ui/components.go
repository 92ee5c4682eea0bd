package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SectionHeader creates a styled section header with a title and color
// Example: "─── TITLE ───────────"
func SectionHeader(title string, color lipgloss.Color) string {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	headerStyle := lipgloss.NewStyle().Foreground(color)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return fmt.Sprintf("%s%s%s",
		headerStyle.Render("  ─── "),
		titleStyle.Render(title),
		headerStyle.Render(" "+dashes),
	)
}

// Spinner frames using braille characters
var SpinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner returns the spinner character at the given frame index
func Spinner(frame int) string {
	return string(SpinnerFrames[frame%len(SpinnerFrames)])
}

// KeyBinding renders a key binding hint
func KeyBinding(key, description string, color lipgloss.Color) string {
	keyStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		descStyle.Render(description),
	)
}

// NoticeIcon returns the icon and color for a notice level
func NoticeIcon(level string) (string, lipgloss.Color) {
	switch level {
	case "error":
		return "✗", ColorRed
	case "progress":
		return "⏳", ColorYellow
	case "info":
		return "✓", ColorGreen
	default:
		return "·", ColorWhite
	}
}

// LabelValue renders "label  value" with a dim label column of fixed width
func LabelValue(label, value string, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorDarkGray).Width(width)
	return labelStyle.Render(label) + value
}

// Truncate shortens s to maxLen runes, marking the cut with an ellipsis
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// ErrorLine renders a fatal error for stderr
func ErrorLine(err error) string {
	style := lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	return style.Render("Error:") + " " + err.Error()
}
