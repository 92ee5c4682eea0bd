package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wahlandcase/gitweb/internal/ui"
)

// contentWidth returns the usable content width, adapting to terminal size
func (m Model) contentWidth() int {
	w := m.width - 8
	if w < 40 {
		w = 40
	}
	return w
}

// View renders the application
func (m Model) View() string {
	if m.shouldQuit {
		return ""
	}

	statusHeight := 3 // status bar with border

	// Available height for content = total - banner - gaps - status
	availableHeight := m.height - ui.BannerHeight(m.repo) - 3 - statusHeight
	if availableHeight < 10 {
		availableHeight = 10
	}

	var sections []string

	// Banner
	sections = append(sections, ui.RenderBanner(m.repo))
	sections = append(sections, "")

	outerBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPurple).
		Width(m.contentWidth()).
		Padding(1, 2)

	var content string
	switch m.screen {
	case ScreenHistory:
		content = m.renderHistory()
	default:
		content = m.renderPanel(availableHeight)
	}
	sections = append(sections, outerBox.Render(content))

	// Status bar
	sections = append(sections, "")
	sections = append(sections, m.renderStatusBar())

	// Center horizontally in the terminal
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, strings.Join(sections, "\n"))
}

func (m Model) renderPanel(availableHeight int) string {
	var lines []string
	urlStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan).Underline(true)

	lines = append(lines, ui.SectionHeader("SESSION", ui.ColorCyan))
	lines = append(lines, "")
	lines = append(lines, "   "+ui.LabelValue("Panel", urlStyle.Render(m.panelURL), 10))
	if m.remoteURL != "" {
		lines = append(lines, "   "+ui.LabelValue("Remote", m.remoteURL, 10))
	}
	if m.root != "" {
		lines = append(lines, "   "+ui.LabelValue("Local", m.root, 10))
	}
	lines = append(lines, "   "+ui.LabelValue("Status", m.renderStatus(), 10))
	lines = append(lines, "")

	lines = append(lines, ui.SectionHeader("NOTICES", ui.ColorMagenta))
	lines = append(lines, "")

	// Fixed rows above take 9 lines; the rest of the box holds notices
	visible := availableHeight - 4 - len(lines)
	if visible < 3 {
		visible = 3
	}
	lines = append(lines, m.renderNotices(visible)...)

	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	switch {
	case m.rendering:
		spinnerStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)
		textStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)
		return fmt.Sprintf("%s %s", spinnerStyle.Render(ui.Spinner(m.spinnerFrame)), textStyle.Render(m.status))
	case m.failed:
		return lipgloss.NewStyle().Foreground(ui.ColorRed).Render(m.status)
	default:
		return lipgloss.NewStyle().Foreground(ui.ColorGreen).Render(m.status)
	}
}

// renderNotices shows the newest notices first, at most limit lines
func (m Model) renderNotices(limit int) []string {
	if len(m.notices) == 0 {
		dim := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
		return []string{dim.Render("   Nothing yet. Click around in the browser.")}
	}

	timeStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	textWidth := m.contentWidth() - 24

	var lines []string
	for i := len(m.notices) - 1; i >= 0 && len(lines) < limit; i-- {
		n := m.notices[i]
		icon, color := ui.NoticeIcon(n.Level.String())
		iconStyle := lipgloss.NewStyle().Foreground(color)
		lines = append(lines, fmt.Sprintf("   %s %s %s",
			iconStyle.Render(icon),
			timeStyle.Render(n.At.Format("15:04:05")),
			ui.Truncate(n.Text, textWidth),
		))
	}
	return lines
}

func (m Model) renderHistory() string {
	var lines []string
	lines = append(lines, ui.SectionHeader("RECENT REPOSITORIES", ui.ColorBlue))
	lines = append(lines, "")

	nameStyle := lipgloss.NewStyle().Foreground(ui.ColorWhite).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	now := m.now()
	for _, v := range m.history {
		lines = append(lines, fmt.Sprintf("   %s  %s",
			nameStyle.Render(v.Repo),
			dimStyle.Render(relativeTime(now, v.OpenedAt)),
		))
		lines = append(lines, "     "+dimStyle.Render(v.Path))
	}
	return strings.Join(lines, "\n")
}

func relativeTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func (m Model) renderStatusBar() string {
	var hints []string

	switch m.screen {
	case ScreenPanel:
		hints = []string{
			ui.KeyBinding("o", "Open panel", ui.ColorBlue),
			ui.KeyBinding("y", "Copy URL", ui.ColorBlue),
			ui.KeyBinding("c", "Clear notices", ui.ColorMagenta),
		}
		if len(m.history) > 0 {
			hints = append(hints, ui.KeyBinding("h", "History", ui.ColorBlue))
		}
		hints = append(hints, ui.KeyBinding("q", "Quit", ui.ColorRed))
	case ScreenHistory:
		hints = []string{
			ui.KeyBinding("Esc", "Back", ui.ColorYellow),
			ui.KeyBinding("q", "Quit", ui.ColorRed),
		}
	}

	bar := strings.Join(hints, "  ")
	if m.feedback != "" {
		bar += "  " + lipgloss.NewStyle().Foreground(ui.ColorGreen).Bold(true).Render(m.feedback)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorDarkGray).
		Width(m.contentWidth()).
		Padding(0, 1).
		Render(bar)
}
