package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/wahlandcase/gitweb/internal/auth"
	"github.com/wahlandcase/gitweb/internal/logging"
)

// Scheme marks a remote raw file that should be shown as a read-only document
const Scheme = "github-preview"

// ErrNoSession is returned when no authentication session could be obtained
var ErrNoSession = auth.ErrNoSession

// Sessions hands out authentication sessions
type Sessions interface {
	Session(ctx context.Context, createIfNone bool) (auth.Session, error)
}

// PreviewURI rewrites a raw download URL into the preview scheme
func PreviewURI(downloadURL string) (string, error) {
	u, err := url.Parse(downloadURL)
	if err != nil {
		return "", fmt.Errorf("parse download url: %w", err)
	}
	u.Scheme = Scheme
	return u.String(), nil
}

// Provider fetches the text behind preview URIs
type Provider struct {
	sessions Sessions
	client   *http.Client
	log      *slog.Logger
}

func NewProvider(sessions Sessions, client *http.Client, log *slog.Logger) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Provider{sessions: sessions, client: client, log: log}
}

// Provide returns the document text for uri. ok is false when the remote
// answered with a non-success status; that case is not an error.
func (p *Provider) Provide(ctx context.Context, uri string) (text string, ok bool, err error) {
	session, err := p.sessions.Session(ctx, true)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return "", false, err
		}
		return "", false, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", false, fmt.Errorf("parse document uri: %w", err)
	}
	u.Scheme = "https"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Debug("document fetch not ok", logging.URL(u.String()), slog.Int("status", resp.StatusCode))
		return "", false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}
	return string(body), true, nil
}
