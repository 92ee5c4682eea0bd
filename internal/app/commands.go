package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wahlandcase/gitweb/internal/server"
)

// tickMsg is sent on each tick for the spinner
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// noticeMsg carries one notice from the feed
type noticeMsg struct {
	notice server.Notice
}

// listenForNotices waits for the next notice; Update re-arms it
func listenForNotices(ch <-chan server.Notice) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{notice: n}
	}
}

// desktopResult reports the outcome of handing the panel URL to the desktop
type desktopResult struct {
	action string
	err    error
}

// openPanelCmd opens the panel in the default browser
func openPanelCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if open == nil {
			return nil
		}
		return desktopResult{action: "Opened", err: open(url)}
	}
}

// copyURLCmd copies the panel URL to the clipboard
func copyURLCmd(clip func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if clip == nil {
			return nil
		}
		return desktopResult{action: "Copied!", err: clip(url)}
	}
}
