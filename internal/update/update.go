// Package update tells whether a newer gitweb release has been published.
package update

import (
	"context"
	"strconv"
	"strings"

	"github.com/wahlandcase/gitweb/internal/github"
)

// Release represents a GitHub release
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Releases fetches the latest release of a repository
type Releases interface {
	Latest(ctx context.Context) (Release, error)
}

// APIReleases reads releases through the REST API
type APIReleases struct {
	Repo *github.Repository
}

func (r APIReleases) Latest(ctx context.Context) (Release, error) {
	return github.Get[Release](ctx, r.Repo.Fetcher, "releases", "latest")
}

// CheckForUpdate returns the latest release if it is newer than currentVersion,
// or nil when up to date
func CheckForUpdate(ctx context.Context, releases Releases, currentVersion string) (*Release, error) {
	latest, err := releases.Latest(ctx)
	if err != nil {
		return nil, err
	}
	// Not found bodies decode into an empty release
	if latest.TagName == "" {
		return nil, nil
	}

	// "dev" version is always older than any release
	if normalizeVersion(currentVersion) == "dev" {
		return &latest, nil
	}
	if compareVersions(normalizeVersion(latest.TagName), normalizeVersion(currentVersion)) > 0 {
		return &latest, nil
	}
	return nil, nil
}

// normalizeVersion strips version prefixes for comparison
func normalizeVersion(v string) string {
	v = strings.TrimPrefix(v, "gitweb/")
	v = strings.TrimPrefix(v, "v")
	return v
}

// compareVersions compares dotted numeric versions part by part, so
// 0.10.0 is newer than 0.9.3. Pre-release suffixes are ignored.
func compareVersions(a, b string) int {
	pa, pb := versionParts(a), versionParts(b)
	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

func versionParts(v string) []int {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, s := range strings.Split(v, ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			n = 0
		}
		parts = append(parts, n)
	}
	return parts
}

// VersionDisplay returns a formatted version string for display
func VersionDisplay(tag string) string {
	return normalizeVersion(tag)
}
