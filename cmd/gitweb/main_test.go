package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/gitweb/internal/config"
	"github.com/wahlandcase/gitweb/internal/logging"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}
}

func TestPathArg(t *testing.T) {
	assert.Equal(t, ".", pathArg(nil))
	assert.Equal(t, "/src/widgets", pathArg([]string{"/src/widgets"}))
}

func TestWebURL(t *testing.T) {
	assert.Equal(t, "https://github.com/acme/widgets", webURL("git@github.com:acme/widgets.git"))
	assert.Equal(t, "https://github.com/acme/widgets", webURL("https://github.com/acme/widgets.git"))
	assert.Equal(t, "https://gitlab.com/acme/widgets.git", webURL("https://gitlab.com/acme/widgets.git"))
}

func TestApplyFlagsOnlyOverridesChangedFlags(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--listen", "127.0.0.1:9000", "--headless"}))

	f := &flags{listen: "127.0.0.1:9000", headless: true}
	cfg := config.DefaultConfig()
	applyFlags(root, f, cfg)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.True(t, cfg.UI.Headless)
	assert.True(t, cfg.Server.OpenBrowser, "--no-browser not given")
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestHTTPClientHasNoTimeout(t *testing.T) {
	assert.Zero(t, newHTTPClient().Timeout)
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"url", "cat", "version"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"listen", "no-browser", "headless"} {
		assert.NotNil(t, root.Flags().Lookup(flag), flag)
	}
	for _, flag := range []string{"config", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "gitweb dev\n", out.String())
}

func TestRootRejectsExtraArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"a", "b"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestResolveRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init", "-b", "main")
	run("config", "user.email", "you@example.com")
	run("config", "user.name", "Your Name")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "init")
	run("remote", "add", "origin", "git@github.com:acme/widgets.git")
	run("config", "branch.main.remote", "origin")

	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	local, err := resolveRepo(context.Background(), sub, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:acme/widgets.git", local.RemoteURL)

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(local.Root)
	assert.Equal(t, want, got)
}

func TestNewLoggerToFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "gitweb.log")

	log, closeLog, err := newLogger(cfg, true)
	require.NoError(t, err)
	log.Info("hello from test")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}
