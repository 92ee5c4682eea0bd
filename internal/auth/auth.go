// Package auth provides GitHub authentication sessions.
//
// A session is resolved from, in order: the configured token, the GITWEB_TOKEN,
// GITHUB_TOKEN and GH_TOKEN environment variables, and the gh CLI's stored
// credential. When nothing is found and the caller allows it, gh auth login is
// run interactively.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrNoSession is returned when no credential could be obtained
var ErrNoSession = errors.New("failed to get authentication session")

// EnvVars are consulted in order for a token
var EnvVars = []string{"GITWEB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// Session is an authenticated GitHub session
type Session struct {
	AccessToken string
	// Source names where the token came from (config, env var name, gh)
	Source string
}

// GhCLI is the subset of the gh command the provider needs
type GhCLI interface {
	// Token prints the stored token (gh auth token)
	Token(ctx context.Context) (string, error)
	// Login runs the interactive login flow (gh auth login)
	Login(ctx context.Context) error
}

// Provider resolves and memoizes a Session
type Provider struct {
	token  string
	getenv func(string) string
	gh     GhCLI

	mu      sync.Mutex
	session *Session
}

// NewProvider creates a provider. token is the configured token (may be empty).
func NewProvider(token string, gh GhCLI) *Provider {
	if gh == nil {
		gh = ExecGh{}
	}
	return &Provider{token: strings.TrimSpace(token), getenv: os.Getenv, gh: gh}
}

// Session returns the current session. With createIfNone, a missing credential
// triggers the interactive login before giving up.
func (p *Provider) Session(ctx context.Context, createIfNone bool) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return *p.session, nil
	}

	s, ok := p.lookup(ctx)
	if !ok && createIfNone {
		if err := p.gh.Login(ctx); err != nil {
			return Session{}, fmt.Errorf("%w: %v", ErrNoSession, err)
		}
		s, ok = p.lookup(ctx)
	}
	if !ok {
		return Session{}, ErrNoSession
	}

	p.session = &s
	return s, nil
}

func (p *Provider) lookup(ctx context.Context) (Session, bool) {
	if p.token != "" {
		return Session{AccessToken: p.token, Source: "config"}, true
	}
	for _, name := range EnvVars {
		if v := strings.TrimSpace(p.getenv(name)); v != "" {
			return Session{AccessToken: v, Source: name}, true
		}
	}
	if tok, err := p.gh.Token(ctx); err == nil && strings.TrimSpace(tok) != "" {
		return Session{AccessToken: strings.TrimSpace(tok), Source: "gh"}, true
	}
	return Session{}, false
}

// ExecGh shells out to the gh binary
type ExecGh struct{}

func (ExecGh) Token(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("gh auth token: %w", err)
	}
	return string(out), nil
}

// Login hands the terminal to gh for the interactive flow
func (ExecGh) Login(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "gh", "auth", "login", "--scopes", "repo")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh auth login: %w", err)
	}
	return nil
}
