package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wahlandcase/gitweb/internal/logging"
)

// Inspector answers questions about a local working tree by running git
type Inspector struct {
	runner Runner
	log    *slog.Logger
}

func NewInspector(runner Runner, log *slog.Logger) *Inspector {
	if runner == nil {
		runner = NewExecRunner("")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Inspector{runner: runner, log: log}
}

// CurrentBranch returns the checked out branch ("HEAD" when detached)
func (i *Inspector) CurrentBranch(ctx context.Context, root string) (string, error) {
	out, err := i.runner.Run(ctx, root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", wrap("rev-parse", err)
	}
	return firstLine(out), nil
}

// BranchRemote returns the remote configured for branch
func (i *Inspector) BranchRemote(ctx context.Context, root, branch string) (string, error) {
	return i.configValue(ctx, root, "branch."+branch+".remote")
}

// RemoteURLFor returns the URL configured for remote
func (i *Inspector) RemoteURLFor(ctx context.Context, root, remote string) (string, error) {
	return i.configValue(ctx, root, "remote."+remote+".url")
}

// RemoteURL resolves the URL of the remote tracked by the current branch.
// Returns ErrNoRemoteURL if the branch has no remote or the remote has no URL.
func (i *Inspector) RemoteURL(ctx context.Context, root string) (string, error) {
	branch, err := i.CurrentBranch(ctx, root)
	if err != nil {
		return "", err
	}

	remote, err := i.BranchRemote(ctx, root, branch)
	if err != nil {
		return "", err
	}

	url, err := i.RemoteURLFor(ctx, root, remote)
	if err != nil {
		return "", err
	}

	i.log.Debug("resolved remote",
		logging.Path(root),
		slog.String("branch", branch),
		slog.String("remote", remote),
		logging.URL(url))
	return url, nil
}

func (i *Inspector) configValue(ctx context.Context, root, key string) (string, error) {
	out, err := i.runner.Run(ctx, root, "config", key)
	if err != nil {
		// git config exits 1 when the key is not set
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Code == 1 && exitErr.Stderr == "" {
			return "", ErrNoRemoteURL
		}
		return "", wrap("config", err)
	}

	value := firstLine(out)
	if value == "" {
		return "", ErrNoRemoteURL
	}
	return value, nil
}

func wrap(command string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return &GitError{Command: command, Output: exitErr.Error()}
	}
	return fmt.Errorf("git %s: %w", command, err)
}
