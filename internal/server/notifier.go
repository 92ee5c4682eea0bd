package server

import (
	"log/slog"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelProgress
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelProgress:
		return "progress"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-facing notification raised outside the panel
type Notice struct {
	Level Level
	Text  string
	At    time.Time
	// Render marks notices that describe the panel's render state
	Render bool
}

// Notifier surfaces notices to the user (terminal UI or log)
type Notifier interface {
	Notify(n Notice)
}

// LogNotifier writes notices to a logger; used when running headless
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(notice Notice) {
	switch notice.Level {
	case LevelError:
		n.Log.Error(notice.Text)
	case LevelProgress:
		n.Log.Debug(notice.Text)
	default:
		n.Log.Info(notice.Text)
	}
}
