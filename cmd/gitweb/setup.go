package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/wahlandcase/gitweb/internal/auth"
	"github.com/wahlandcase/gitweb/internal/config"
	"github.com/wahlandcase/gitweb/internal/git"
	"github.com/wahlandcase/gitweb/internal/github"
	"github.com/wahlandcase/gitweb/internal/logging"
)

// loadConfig reads the config file and applies command-line overrides
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.config != "" {
		cfg, err = config.LoadFrom(f.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, f, cfg)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("listen") {
		cfg.Server.Listen = f.listen
	}
	if changed("no-browser") && f.noBrowser {
		cfg.Server.OpenBrowser = false
	}
	if changed("headless") && f.headless {
		cfg.UI.Headless = true
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
}

// newLogger logs to stderr, or to the log file while the terminal UI owns
// the screen. The returned close func is never nil.
func newLogger(cfg *config.Config, toFile bool) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if toFile {
		file, err := logging.OpenFile(cfg.LogFilePath())
		if err != nil {
			return nil, nil, err
		}
		w, closeFn = file, file.Close
	}
	return logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: w}), closeFn, nil
}

// localRepo is the checkout a command was pointed at
type localRepo struct {
	Root      string
	RemoteURL string
}

// resolveRepo finds the repository containing path and its remote URL
func resolveRepo(ctx context.Context, path string, log *slog.Logger) (localRepo, error) {
	root, err := git.FindRoot(path)
	if err != nil {
		return localRepo{}, err
	}
	inspector := git.NewInspector(git.NewExecRunner(""), log)
	remoteURL, err := inspector.RemoteURL(ctx, root)
	if err != nil {
		return localRepo{}, err
	}
	return localRepo{Root: root, RemoteURL: remoteURL}, nil
}

// webURL is the address a browser can open for a remote
func webURL(remoteURL string) string {
	if remote, ok := github.ParseRemote(remoteURL); ok {
		return "https://github.com/" + remote.FullName()
	}
	return remoteURL
}

// newHTTPClient leaves requests unbounded; the command context is the only
// way to cancel them
func newHTTPClient() *http.Client {
	return &http.Client{}
}

// optionalToken returns a token when one is available without prompting
func optionalToken(ctx context.Context, sessions *auth.Provider) string {
	session, err := sessions.Session(ctx, false)
	if err != nil {
		return ""
	}
	return session.AccessToken
}
