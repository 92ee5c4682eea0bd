// Package app is the terminal side of a browsing session: it shows where the
// panel is served, what it is doing and the notifications raised by it.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wahlandcase/gitweb/internal/server"
)

// maxNotices bounds the notice list kept on screen
const maxNotices = 50

// Feed is a server.Notifier that forwards notices into the bubbletea program
type Feed struct {
	ch chan server.Notice
}

func NewFeed(buffer int) *Feed {
	return &Feed{ch: make(chan server.Notice, buffer)}
}

// Notify never blocks; notices are dropped while the UI is behind
func (f *Feed) Notify(n server.Notice) {
	select {
	case f.ch <- n:
	default:
	}
}

// Events is the channel the program listens on
func (f *Feed) Events() <-chan server.Notice {
	return f.ch
}

type Options struct {
	Repo      string
	Root      string
	RemoteURL string
	PanelURL  string
	Events    <-chan server.Notice
	History   []Visit
	// Open and Copy hand the panel URL to the desktop
	Open func(url string) error
	Copy func(text string) error
	Now  func() time.Time
}

// Model is the main application state
type Model struct {
	// Session
	repo      string
	root      string
	remoteURL string
	panelURL  string
	events    <-chan server.Notice
	open      func(string) error
	copy      func(string) error
	now       func() time.Time

	// Navigation
	screen     Screen
	shouldQuit bool

	// Panel state
	status    string
	rendering bool
	failed    bool
	notices   []server.Notice
	history   []Visit

	// UI state
	spinnerFrame int
	feedback     string // Brief "Copied!" message, clears on next key

	// Window size
	width  int
	height int
}

// New creates a new application model
func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return Model{
		repo:      opts.Repo,
		root:      opts.Root,
		remoteURL: opts.RemoteURL,
		panelURL:  opts.PanelURL,
		events:    opts.Events,
		open:      opts.Open,
		copy:      opts.Copy,
		now:       now,
		history:   opts.History,
		screen:    ScreenPanel,
		status:    "Loading repository...",
		rendering: true,
		width:     80,
		height:    24,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
		listenForNotices(m.events),
	)
}

// addNotice appends to the notice list, dropping the oldest past maxNotices
func (m *Model) addNotice(n server.Notice) {
	m.notices = append(m.notices, n)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}
