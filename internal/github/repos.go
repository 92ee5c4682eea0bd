package github

import (
	"context"
	"net/url"
	"strings"

	"github.com/wahlandcase/gitweb/internal/models"
)

// Repository wraps a fetcher scoped to /repos/{owner}/{repo}
type Repository struct {
	*Fetcher
	Remote Remote
}

// NewRepository scopes api (the global API fetcher) to one repository
func NewRepository(api *Fetcher, remote Remote) *Repository {
	return &Repository{
		Fetcher: api.Sub("repos", remote.Owner, remote.Repo),
		Remote:  remote,
	}
}

// Metadata fetches GET /repos/{owner}/{repo}
func (r *Repository) Metadata(ctx context.Context) (models.Repo, error) {
	return Get[models.Repo](ctx, r.Fetcher)
}

// Contents lists the directory at path ("" is the repository root).
// path is unescaped; each segment is escaped here.
func (r *Repository) Contents(ctx context.Context, path string) ([]models.Entry, error) {
	return Get[[]models.Entry](ctx, r.Fetcher, append([]string{"contents"}, escapeSegments(path)...)...)
}

// Commits lists commits touching path. perPage <= 0 leaves the page size to the server.
func (r *Repository) Commits(ctx context.Context, path string, perPage int) ([]models.Commit, error) {
	var pageSize any
	if perPage > 0 {
		pageSize = perPage
	}
	return GetQuery[[]models.Commit](ctx, r.Fetcher, Query{"path": path, "per_page": pageSize}, "commits")
}

func escapeSegments(path string) []string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return segments
}
