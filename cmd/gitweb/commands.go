package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wahlandcase/gitweb/internal/auth"
	"github.com/wahlandcase/gitweb/internal/browser"
	"github.com/wahlandcase/gitweb/internal/document"
	"github.com/wahlandcase/gitweb/internal/github"
	"github.com/wahlandcase/gitweb/internal/update"
)

// releaseRepo publishes gitweb releases
var releaseRepo = github.Remote{Owner: "wahlandcase", Repo: "gitweb"}

// newURLCmd opens the remote of a checkout in the browser
func newURLCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "url [path]",
		Short: "Open the remote URL of a repository in the browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, closeLog, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			local, err := resolveRepo(cmd.Context(), pathArg(args), log)
			if err != nil {
				return err
			}
			target := webURL(local.RemoteURL)
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return browser.Open(target)
		},
	}
}

// newCatCmd prints the text behind a github-preview URI
func newCatCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <" + document.Scheme + "-uri>",
		Short: "Print a remote file through the read-only document provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, closeLog, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			docs := document.NewProvider(auth.NewProvider(cfg.GitHub.Token, nil), newHTTPClient(), log)
			text, ok, err := docs.Provide(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "(no content)")
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
}

// newVersionCmd prints the version and optionally checks for a newer release
func newVersionCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the gitweb version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gitweb %s\n", update.VersionDisplay(version))
			if !f.check {
				return nil
			}

			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			token := optionalToken(cmd.Context(), auth.NewProvider(cfg.GitHub.Token, nil))
			api := github.NewFetcher(newHTTPClient(), github.DefaultHeaders(token, cfg.GitHub.UserAgent), cfg.GitHub.APIURL)

			latest, err := update.CheckForUpdate(cmd.Context(), update.APIReleases{Repo: github.NewRepository(api, releaseRepo)}, version)
			if err != nil {
				return fmt.Errorf("update check failed: %w", err)
			}
			if latest == nil {
				fmt.Fprintln(out, "Up to date")
				return nil
			}
			fmt.Fprintf(out, "Update available: %s %s\n", update.VersionDisplay(latest.TagName), latest.HTMLURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.check, "check", false, "Check GitHub for a newer release")
	return cmd
}

