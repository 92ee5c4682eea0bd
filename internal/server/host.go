package server

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wahlandcase/gitweb/internal/metrics"
)

// Opener hands a URL to the system browser
type Opener func(target string) error

// Host connects a view to the user: errors become notices and documents
// open in the browser through the /document route.
type Host struct {
	server   *Server
	notifier Notifier
	open     Opener
	metrics  *metrics.Recorder
	now      func() time.Time
}

func (h *Host) notify(level Level, text string) {
	h.notifier.Notify(Notice{Level: level, Text: text, At: h.now()})
}

func (h *Host) notifyRender(level Level, text string) {
	h.notifier.Notify(Notice{Level: level, Text: text, At: h.now(), Render: true})
}

func (h *Host) ShowError(msg string) {
	h.notify(LevelError, msg)
}

// OpenDocument opens a preview URI as plain text in the browser
func (h *Host) OpenDocument(_ context.Context, uri string) error {
	target := h.server.DocumentURL(uri)
	if err := h.open(target); err != nil {
		return fmt.Errorf("open %s: %w", uri, err)
	}
	h.notify(LevelInfo, "Opened "+displayURI(uri))
	return nil
}

func (h *Host) RenderStarted(path string) {
	h.notifyRender(LevelProgress, "Loading "+displayPath(path))
}

func (h *Host) RenderFinished(path string, d time.Duration, err error) {
	if h.metrics != nil {
		h.metrics.ObserveRender(d, err)
	}
	if err != nil {
		h.notifyRender(LevelError, fmt.Sprintf("Failed to load %s: %v", displayPath(path), err))
		return
	}
	h.notifyRender(LevelInfo, "Showing "+displayPath(path))
}

func displayPath(path string) string {
	return "/" + path
}

// displayURI shortens a preview URI to its path
func displayURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return uri
	}
	return u.Path
}
