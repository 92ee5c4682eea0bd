package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wahlandcase/gitweb/internal/server"
)

// Update handles all messages and updates state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10
		return m, tickCmd()

	case noticeMsg:
		m.handleNotice(msg.notice)
		// Continue listening for more notices
		return m, listenForNotices(m.events)

	case desktopResult:
		if msg.err != nil {
			m.addNotice(server.Notice{Level: server.LevelError, Text: msg.err.Error(), At: m.now()})
			return m, nil
		}
		m.feedback = msg.action
		return m, nil
	}

	return m, nil
}

// handleNotice applies render notices to the status line and keeps the rest
func (m *Model) handleNotice(n server.Notice) {
	if !n.Render {
		m.addNotice(n)
		return
	}

	m.status = n.Text
	m.rendering = n.Level == server.LevelProgress
	m.failed = n.Level == server.LevelError
	if m.failed {
		m.addNotice(n)
	}
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear feedback on any keypress
	m.feedback = ""

	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.shouldQuit = true
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenPanel:
		return m.handlePanelKey(msg)
	case ScreenHistory:
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.shouldQuit = true
		return m, tea.Quit
	case "o", "enter":
		return m, openPanelCmd(m.open, m.panelURL)
	case "y":
		return m, copyURLCmd(m.copy, m.panelURL)
	case "c":
		m.notices = nil
	case "h":
		if len(m.history) > 0 {
			m.screen = ScreenHistory
		}
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.shouldQuit = true
		return m, tea.Quit
	case "esc", "h", "backspace":
		m.screen = ScreenPanel
	}
	return m, nil
}
