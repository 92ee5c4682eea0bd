// Package server hosts the repository panel on a loopback HTTP server.
// The browser shows "/" and posts clicks back to "/message".
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/wahlandcase/gitweb/internal/document"
	"github.com/wahlandcase/gitweb/internal/logging"
	"github.com/wahlandcase/gitweb/internal/metrics"
	"github.com/wahlandcase/gitweb/internal/view"
)

// SessionHeader carries the panel token on posted messages
const SessionHeader = "X-Gitweb-Session"

const maxMessageBytes = 64 << 10

//go:embed static
var staticFiles embed.FS

// MessageHandler receives messages posted by the page
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg view.Message)
}

// DocumentSource resolves preview URIs to text
type DocumentSource interface {
	Provide(ctx context.Context, uri string) (text string, ok bool, err error)
}

type Options struct {
	Documents DocumentSource
	// AssetDir is served under /assets/icons/
	AssetDir string
	Metrics  *metrics.Recorder
	Log      *slog.Logger
	// PollTimeout bounds a single long-poll (default 25s)
	PollTimeout time.Duration
}

type Server struct {
	ln    net.Listener
	base  string
	panel *Panel
	opts  Options
	log   *slog.Logger

	// ctx outlives individual requests; message handling runs under it
	ctx context.Context

	mu      sync.RWMutex
	handler MessageHandler
}

// Listen binds addr so the panel URL is known before anything renders
func Listen(ctx context.Context, addr string, opts Options) (*Server, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return newServer(ctx, ln, opts), nil
}

func newServer(ctx context.Context, ln net.Listener, opts Options) *Server {
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 25 * time.Second
	}
	base := "http://" + ln.Addr().String()
	return &Server{
		ln:    ln,
		base:  base,
		panel: NewPanel(base),
		opts:  opts,
		log:   opts.Log,
		ctx:   ctx,
	}
}

// URL is the address of the panel page
func (s *Server) URL() string {
	return s.base + "/"
}

func (s *Server) Panel() *Panel {
	return s.panel
}

// NewHost creates the view host backed by this server
func (s *Server) NewHost(notifier Notifier, open Opener) *Host {
	return &Host{
		server:   s,
		notifier: notifier,
		open:     open,
		metrics:  s.opts.Metrics,
		now:      time.Now,
	}
}

// Attach routes posted messages to h
func (s *Server) Attach(h MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// DocumentURL is where the browser can read a preview URI as text
func (s *Server) DocumentURL(uri string) string {
	q := url.Values{}
	q.Set("uri", uri)
	q.Set("token", s.panel.SessionToken())
	return s.base + "/document?" + q.Encode()
}

// Serve blocks until ctx is cancelled or the listener fails
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(s.ln) }()
	s.log.Info("Panel server listening", logging.URL(s.URL()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			// Long polls may still be parked
			_ = srv.Close()
		}
		return nil
	}
}

// Handler returns the routes without binding a listener
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /poll", s.handlePoll)
	mux.HandleFunc("POST /message", s.handleMessage)
	mux.HandleFunc("GET /document", s.handleDocument)
	mux.Handle("GET /assets/static/", http.StripPrefix("/assets/static/", http.FileServerFS(static)))
	if s.opts.AssetDir != "" {
		mux.Handle("GET /assets/icons/", http.StripPrefix("/assets/icons/", http.FileServer(http.Dir(s.opts.AssetDir))))
	}
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	}
	return s.middleware(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	html, version, _ := s.panel.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(withVersion(html, version)))
}

// handlePoll answers once the panel version differs from v or the poll times out
func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	_, version, changed := s.panel.Snapshot()

	if seen, err := strconv.ParseUint(r.URL.Query().Get("v"), 10, 64); err == nil && seen == version {
		timer := time.NewTimer(s.opts.PollTimeout)
		defer timer.Stop()
		select {
		case <-changed:
			_, version, _ = s.panel.Snapshot()
		case <-timer.C:
		case <-r.Context().Done():
			return
		case <-s.ctx.Done():
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(map[string]uint64{"version": version})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(SessionHeader) != s.panel.SessionToken() {
		http.Error(w, "invalid session", http.StatusForbidden)
		return
	}

	var msg view.Message
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&msg); err != nil {
		http.Error(w, "invalid message: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()
	if h == nil {
		http.Error(w, "panel not ready", http.StatusServiceUnavailable)
		return
	}

	s.log.Debug("Panel message", logging.Command(msg.Command), slog.String("text", msg.Text))
	// Renders outlive the request
	go h.HandleMessage(s.ctx, msg)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("token") != s.panel.SessionToken() {
		http.Error(w, "invalid session", http.StatusForbidden)
		return
	}
	uri := q.Get("uri")
	if u, err := url.Parse(uri); err != nil || u.Scheme != document.Scheme {
		http.Error(w, "unsupported document uri", http.StatusBadRequest)
		return
	}
	if s.opts.Documents == nil {
		http.Error(w, "documents unavailable", http.StatusServiceUnavailable)
		return
	}

	text, ok, err := s.opts.Documents.Provide(r.Context(), uri)
	switch {
	case err != nil:
		s.observeDocument("error")
		s.log.Error("Document fetch failed", logging.URL(uri), logging.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
	case !ok:
		s.observeDocument("empty")
		w.WriteHeader(http.StatusNoContent)
	default:
		s.observeDocument("ok")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		_, _ = w.Write([]byte(text))
	}
}

func (s *Server) observeDocument(result string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveDocument(result)
	}
}

// middleware logs each request and turns handler panics into 500s
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("HTTP handler panic", slog.Any("panic", rec), logging.Path(r.URL.Path))
				http.Error(wrapped, "internal server error", http.StatusInternalServerError)
			}
			s.log.Debug("HTTP request",
				slog.String("method", r.Method),
				logging.Path(r.URL.Path),
				slog.Int("status", wrapped.status),
				logging.DurationMS(time.Since(start).Milliseconds()))
		}()
		next.ServeHTTP(wrapped, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
