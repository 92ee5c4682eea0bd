package main

// Must be first import - fixes Warp terminal delay before lipgloss loads
import _ "github.com/wahlandcase/gitweb/internal/termfix"

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wahlandcase/gitweb/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type flags struct {
	config    string
	listen    string
	logLevel  string
	noBrowser bool
	headless  bool
	check     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorLine(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "gitweb [path]",
		Short: "Browse the GitHub repository behind a local checkout",
		Long: "gitweb finds the remote of the git repository at path (default: the current\n" +
			"directory) and serves a browsable view of it on a local web page.",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, f, pathArg(args))
		},
	}

	rootCmd.PersistentFlags().StringVar(&f.config, "config", "", "Config file (default: gitweb.toml in the user config dir)")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&f.listen, "listen", "", "Address for the panel server (e.g., 127.0.0.1:8080)")
	rootCmd.Flags().BoolVar(&f.noBrowser, "no-browser", false, "Do not open the panel in the browser")
	rootCmd.Flags().BoolVar(&f.headless, "headless", false, "Run without the terminal UI; log to stderr")

	rootCmd.AddCommand(
		newURLCmd(f),
		newCatCmd(f),
		newVersionCmd(f),
	)
	return rootCmd
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
