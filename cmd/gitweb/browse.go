package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wahlandcase/gitweb/internal/app"
	"github.com/wahlandcase/gitweb/internal/auth"
	"github.com/wahlandcase/gitweb/internal/browser"
	"github.com/wahlandcase/gitweb/internal/config"
	"github.com/wahlandcase/gitweb/internal/document"
	"github.com/wahlandcase/gitweb/internal/github"
	"github.com/wahlandcase/gitweb/internal/logging"
	"github.com/wahlandcase/gitweb/internal/metrics"
	"github.com/wahlandcase/gitweb/internal/models"
	"github.com/wahlandcase/gitweb/internal/server"
	"github.com/wahlandcase/gitweb/internal/view"
)

// runBrowse opens the repository at path: GitHub remotes get the panel,
// anything else is handed to the browser as-is
func runBrowse(cmd *cobra.Command, f *flags, path string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, closeLog, err := newLogger(cfg, !cfg.UI.Headless)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = closeLog() }()

	local, err := resolveRepo(ctx, path, log)
	if err != nil {
		return err
	}

	remote, ok := github.ParseRemote(local.RemoteURL)
	if !ok {
		log.Info("Not a GitHub remote, opening externally", logging.URL(local.RemoteURL))
		fmt.Fprintf(cmd.OutOrStdout(), "Opening %s\n", local.RemoteURL)
		return browser.Open(local.RemoteURL)
	}
	log = log.With(logging.Repository(remote.FullName()))

	// Login may prompt on the terminal, so it has to happen before the UI starts
	sessions := auth.NewProvider(cfg.GitHub.Token, nil)
	session, err := sessions.Session(ctx, true)
	if err != nil {
		return err
	}
	log.Debug("Authenticated", slog.String("source", session.Source))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rec := metrics.New()
	client := newHTTPClient()
	api := github.NewFetcher(client, github.DefaultHeaders(session.AccessToken, cfg.GitHub.UserAgent), cfg.GitHub.APIURL, github.WithObserver(rec))
	repo := github.NewRepository(api, remote)
	docs := document.NewProvider(sessions, client, log)

	srv, err := server.Listen(ctx, cfg.Server.Listen, server.Options{
		Documents: docs,
		AssetDir:  cfg.AssetDir(),
		Metrics:   rec,
		Log:       log,
	})
	if err != nil {
		return err
	}

	var (
		notifier server.Notifier = server.LogNotifier{Log: log}
		feed     *app.Feed
	)
	if !cfg.UI.Headless {
		feed = app.NewFeed(64)
		notifier = feed
	}
	host := srv.NewHost(notifier, browser.Open)

	opts := view.Options{
		Repo:           repo,
		Metadata:       metadataSource(cfg, client, session, remote, rec),
		IconTheme:      cfg.IconThemePath(),
		AssetDir:       cfg.AssetDir(),
		CommitsPerPage: cfg.GitHub.CommitsPerPage,
		Panel:          srv.Panel(),
		Host:           host,
		Observer:       host,
		Log:            log,
	}
	if cfg.UI.Readme {
		opts.Content = docs
	}
	srv.Attach(view.New(ctx, opts))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx) }()

	history := recordVisit(remote.FullName(), local.Root, log)

	if cfg.Server.OpenBrowser {
		if err := browser.Open(srv.URL()); err != nil {
			log.Warn("Failed to open browser", logging.URL(srv.URL()), logging.Error(err))
		}
	}

	if cfg.UI.Headless {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at %s\n", remote.FullName(), srv.URL())
		return <-serveErr
	}

	model := app.New(app.Options{
		Repo:      remote.FullName(),
		Root:      local.Root,
		RemoteURL: local.RemoteURL,
		PanelURL:  srv.URL(),
		Events:    feed.Events(),
		History:   history,
		Open:      browser.Open,
		Copy:      browser.CopyToClipboard,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	cancel()
	return <-serveErr
}

// metadataSource picks the GraphQL transport for repository metadata when
// configured; nil keeps the REST default
func metadataSource(cfg *config.Config, client *http.Client, session auth.Session, remote github.Remote, rec *metrics.Recorder) view.MetadataFunc {
	if cfg.GitHub.Transport != config.TransportGraphQL {
		return nil
	}
	gql := github.NewFetcher(client, github.GraphQLHeaders(session.AccessToken, cfg.GitHub.UserAgent), cfg.GitHub.GraphQLURL, github.WithObserver(rec))
	return func(ctx context.Context) (models.Repo, error) {
		return github.RepositoryOverview(ctx, gql, remote.Owner, remote.Repo)
	}
}

// recordVisit stores this session in the history and returns earlier visits
func recordVisit(repo, root string, log *slog.Logger) []app.Visit {
	path, err := app.HistoryPath()
	if err != nil {
		return nil
	}
	visits, err := app.RecordVisit(path, app.Visit{Repo: repo, Path: root, OpenedAt: time.Now()})
	if err != nil {
		log.Warn("Failed to save history", logging.Path(path), logging.Error(err))
	}
	// The current repository is first
	if len(visits) > 0 {
		return visits[1:]
	}
	return nil
}
