package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner is the ASCII art shown above every screen
var Banner = []string{
	"  ____ ___ _______        _______ ____  ",
	" / ___|_ _|_   _\\ \\      / / ____| __ ) ",
	"| |  _ | |  | |  \\ \\ /\\ / /|  _| |  _ \\ ",
	"| |_| || |  | |   \\ V  V / | |___| |_) |",
	" \\____|___| |_|    \\_/\\_/  |_____|____/ ",
}

// RenderBanner returns the styled banner, with the repository name under it
// when one is given
func RenderBanner(repo string) string {
	bannerStyle := lipgloss.NewStyle().
		Foreground(ColorCyan).
		Align(lipgloss.Center)

	var lines []string
	for _, line := range Banner {
		lines = append(lines, bannerStyle.Render(line))
	}

	if repo != "" {
		lines = append(lines, "")
		repoStyle := lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true).
			Align(lipgloss.Center)
		lines = append(lines, repoStyle.Render(repo))
	}

	return strings.Join(lines, "\n")
}

// BannerHeight is the number of lines RenderBanner produces
func BannerHeight(repo string) int {
	if repo == "" {
		return len(Banner)
	}
	return len(Banner) + 2
}
